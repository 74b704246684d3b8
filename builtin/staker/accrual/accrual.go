// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/staker/stakes"
	"github.com/vechain/skillstake/thor"
)

// denominator of the yearly rate: basis points times seconds per year.
var denominator = new(uint256.Int).Mul(
	uint256.NewInt(thor.BPSDenominator),
	uint256.NewInt(uint64(thor.SecondsPerYear)),
)

// Elapsed returns now - last. An overflowing difference is reported as zero.
func Elapsed(last, now int64) int64 {
	d := now - last
	// overflow iff operands have different signs and the result's sign differs from now
	if (now >= 0) != (last >= 0) && (d >= 0) != (now >= 0) {
		return 0
	}
	return d
}

// Reward returns floor(amount * aprBps * elapsed / (10_000 * 31_536_000)).
// Non-positive elapsed yields zero.
func Reward(amount, aprBps uint64, elapsed int64) (uint64, error) {
	if elapsed <= 0 || amount == 0 || aprBps == 0 {
		return 0, nil
	}

	num, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(amount), uint256.NewInt(aprBps))
	if overflow {
		return 0, reverts.ErrMathOverflow
	}
	if _, overflow = num.MulOverflow(num, uint256.NewInt(uint64(elapsed))); overflow {
		return 0, reverts.ErrMathOverflow
	}
	num.Div(num, denominator)
	if !num.IsUint64() {
		return 0, reverts.ErrMathOverflow
	}
	return num.Uint64(), nil
}

// Accrue brings rec's pending rewards current at now and moves its accrual clock to now.
// A clock reading at or before the last accrual only moves the clock.
func Accrue(rec *stakes.Record, aprBps uint64, now int64) error {
	elapsed := Elapsed(rec.LastAccruedTs, now)
	if elapsed <= 0 || rec.AmountStaked == 0 {
		rec.LastAccruedTs = now
		return nil
	}
	accrued, err := Reward(rec.AmountStaked, aprBps, elapsed)
	if err != nil {
		return err
	}
	pending, overflow := math.SafeAdd(rec.PendingRewards, accrued)
	if overflow {
		return reverts.ErrMathOverflow
	}
	rec.PendingRewards = pending
	rec.LastAccruedTs = now
	return nil
}

// Preview returns the pending rewards rec would hold after accruing at now, without mutating rec.
func Preview(rec *stakes.Record, aprBps uint64, now int64) (uint64, error) {
	cpy := *rec
	if err := Accrue(&cpy, aprBps, now); err != nil {
		return 0, err
	}
	return cpy.PendingRewards, nil
}
