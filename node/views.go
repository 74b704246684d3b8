// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/builtin/staker/stakes"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// StakeView is a participant's stake record with the figures derived at the node clock.
type StakeView struct {
	Address         thor.Address // where the record is stored
	Record          *stakes.Record
	Now             int64
	PreviewRewards  uint64
	FaucetRemaining uint64
	NextTaskID      uint64
	ProofsExhausted bool // the last task id is the largest one, NextTaskID is zero
	Balance         uint64
}

// Challenge is what a participant needs to mine the next proof.
type Challenge struct {
	Mint            thor.Address
	Difficulty      uint8
	Reward          uint64
	OracleNonce     uint64
	NextTaskID      uint64
	ProofsExhausted bool
}

// Report is the outcome of Verify.
type Report struct {
	Records      int
	SumStaked    uint64
	TotalStaked  uint64
	VaultBalance uint64
	// Derivation is the outcome of checking the persisted vault and bumps against the program.
	Derivation   error
}

// OK reports whether the totals agree and the derivation holds.
func (r *Report) OK() bool {
	return r.Derivation == nil && r.SumStaked == r.TotalStaked && r.TotalStaked == r.VaultBalance
}

func (n *Node) read() (*staker.Staker, *custody.Ledger) {
	return n.program.WithState(n.stater.NewState())
}

// Policy returns the committed policy record.
func (n *Node) Policy() (*policy.Record, error) {
	n.policyLock.RLock()
	defer n.policyLock.RUnlock()

	s, _ := n.read()
	return s.Policy()
}

// GetStake returns owner's committed stake record.
func (n *Node) GetStake(owner thor.Address) (*StakeView, error) {
	n.policyLock.RLock()
	defer n.policyLock.RUnlock()
	defer n.holdParticipant(owner)()

	s, ledger := n.read()
	pol, err := s.Policy()
	if err != nil {
		return nil, err
	}
	rec, err := s.GetStake(owner)
	if err != nil {
		return nil, err
	}
	now := n.clock()
	view := &StakeView{Record: rec, Now: now}
	if next, overflow := math.SafeAdd(rec.LastTaskID, 1); overflow {
		view.ProofsExhausted = true
	} else {
		view.NextTaskID = next
	}
	if view.Address, _, err = stakes.Address(n.program.Address, owner); err != nil {
		return nil, err
	}
	if view.PreviewRewards, err = s.PreviewRewards(owner, now); err != nil {
		return nil, err
	}
	if rec.FaucetClaimed < pol.FaucetCap {
		view.FaucetRemaining = pol.FaucetCap - rec.FaucetClaimed
	}
	if view.Balance, err = ledger.BalanceOf(owner); err != nil {
		return nil, err
	}
	return view, nil
}

// Balance returns the token balance held at addr.
func (n *Node) Balance(addr thor.Address) (uint64, error) {
	n.policyLock.RLock()
	defer n.policyLock.RUnlock()
	defer n.holdParticipant(addr)()

	_, ledger := n.read()
	return ledger.BalanceOf(addr)
}

// Challenge returns the current proof of work parameters for owner.
func (n *Node) Challenge(owner thor.Address) (*Challenge, error) {
	view, err := n.GetStake(owner)
	if err != nil {
		return nil, err
	}
	pol, err := n.Policy()
	if err != nil {
		return nil, err
	}
	return &Challenge{
		Mint:            pol.Mint,
		Difficulty:      pol.PowDifficulty,
		Reward:          pol.PowReward,
		OracleNonce:     pol.OracleNonce,
		NextTaskID:      view.NextTaskID,
		ProofsExhausted: view.ProofsExhausted,
	}, nil
}

// Events queries the event journal.
func (n *Node) Events(ctx context.Context, filter *eventdb.Filter) ([]*eventdb.Event, error) {
	if n.events == nil {
		return nil, nil
	}
	return n.events.Filter(ctx, filter)
}

// Verify recomputes the sum of every staked amount and compares it with the policy total and
// the vault balance. progress, if not nil, is called after each record with the number of
// records visited so far and the total to visit.
func (n *Node) Verify(ctx context.Context, progress func(done, total int)) (*Report, error) {
	// staked amounts only change under the exclusive policy lock
	n.policyLock.RLock()
	defer n.policyLock.RUnlock()

	s, ledger := n.read()
	pol, err := s.Policy()
	if err != nil {
		return nil, err
	}
	total, err := n.stater.Count(state.StakeSpace)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalStaked: pol.TotalStaked,
		Derivation:  n.program.Authorities.Check(pol.Vault, pol.Bump, pol.VaultBump, pol.MintAuthBump),
	}
	err = n.stater.ForEach(state.StakeSpace, func(addr thor.Address, data []byte) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		rec, err := stakes.Decode(data)
		if err != nil {
			return false, errors.WithMessagef(err, "decode stake at %v", addr)
		}
		sum, overflow := math.SafeAdd(report.SumStaked, rec.AmountStaked)
		if overflow {
			return false, errors.New("sum of staked amounts overflows")
		}
		report.SumStaked = sum
		report.Records++
		if progress != nil {
			progress(report.Records, total)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if report.VaultBalance, err = ledger.BalanceOf(pol.Vault); err != nil {
		return nil, err
	}
	return report, nil
}
