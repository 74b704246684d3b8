// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pow

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vechain/skillstake/thor"
)

const checkInterval = 1024

// Solve searches nonces from start for one whose proof meets difficulty.
// Workers stride the nonce space: worker i tries start+i, start+i+workers, and so on.
// It returns the first proof found, or the context error if ctx ends first.
// attempts, if not nil, is increased by the number of hashes tried.
func Solve(
	ctx context.Context,
	caller, mint thor.Address,
	taskID uint64,
	difficulty uint8,
	start uint64,
	workers int,
	attempts *atomic.Uint64,
) (*Record, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once  sync.Once
		found *Record
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			var tried uint64
			defer func() {
				if attempts != nil {
					attempts.Add(tried)
				}
			}()
			for nonce := start + uint64(i); ; nonce += uint64(workers) {
				if tried%checkInterval == 0 && gctx.Err() != nil {
					return nil
				}
				tried++
				if rec, ok := Verify(caller, mint, taskID, nonce, difficulty); ok {
					once.Do(func() {
						found = rec
						cancel()
					})
					return nil
				}
			}
		})
	}
	_ = g.Wait()

	if found != nil {
		return found, nil
	}
	return nil, ctx.Err()
}
