// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

// maxClockOffset is the tolerated drift of the node clock, which timestamps accrual.
const maxClockOffset = 5 * time.Second

// ntpQuery is replaced in tests.
var ntpQuery = ntp.Query

func (n *Node) houseKeeping(ctx context.Context) {
	clockSyncTicker := time.NewTicker(n.opts.ClockSyncInterval)
	defer clockSyncTicker.Stop()
	cacheStatsTicker := time.NewTicker(n.opts.CacheStatsInterval)
	defer cacheStatsTicker.Stop()

	if n.opts.NTPCheck {
		go n.checkClockOffset()
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debug("received context done signal")
			return
		case <-clockSyncTicker.C:
			if n.opts.NTPCheck {
				logger.Debug("received clock sync tick")
				go n.checkClockOffset()
			}
		case <-cacheStatsTicker.C:
			n.logCacheStats()
		}
	}
}

func (n *Node) checkClockOffset() {
	resp, err := ntpQuery(n.opts.NTPServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	metricClockOffset().Set(resp.ClockOffset.Milliseconds())
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func (n *Node) logCacheStats() {
	changed, hit, miss := n.stater.CacheStats().Stats()
	// log only when the hit rate changed since the last run, to avoid too many logs
	if changed {
		logStats("state cache stats", hit, miss)
	}
	metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": "state", "event": "hit"})
	metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": "state", "event": "miss"})
}

func logStats(msg string, hit, miss int64) {
	lookups := hit + miss
	var str string
	if lookups > 0 {
		str = fmt.Sprintf("%.3f", float64(hit)/float64(lookups))
	} else {
		str = "n/a"
	}

	logger.Info(msg,
		"lookups", lookups,
		"hitrate", str,
	)
}
