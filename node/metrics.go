// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/skillstake/metrics"
)

var (
	metricOperationCount    = metrics.LazyLoadCounterVec("operation_count", []string{"op", "result"})
	metricOperationDuration = metrics.LazyLoadHistogramVec(
		"operation_duration_ms", []string{"op"}, metrics.BucketOperation,
	)
	metricCommittedRecords = metrics.LazyLoadCounter("committed_records_count")
	metricTotalStaked      = metrics.LazyLoadGauge("total_staked")
	metricCacheHitMiss     = metrics.LazyLoadGaugeVec("cache_hit_miss_count", []string{"type", "event"})
	metricClockOffset      = metrics.LazyLoadGauge("clock_offset_ms")
)
