// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"encoding/binary"

	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/builtin/staker/pow"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

// Bootstrap is the custody setup done together with the first initialize.
type Bootstrap struct {
	Decimals uint8
	// Balances are minted to their holders through the mint authority.
	Balances map[thor.Address]uint64
}

// Initialize creates the token, the vault account and the policy record in one transaction.
func (n *Node) Initialize(ctx context.Context, caller thor.Address, p staker.InitParams, boot *Bootstrap) (*policy.Record, error) {
	var rec *policy.Record
	_, err := n.execute(ctx, OpInitialize, caller, lockPolicy, func(s *staker.Staker, l *custody.Ledger, _ int64, ev *eventdb.Event) error {
		var err error
		if rec, err = s.Initialize(caller, p); err != nil {
			return err
		}
		if boot != nil {
			if err := n.bootstrap(l, p.Mint, boot); err != nil {
				return err
			}
		}
		ev.Data, err = rec.Encode()
		return err
	})
	return rec, err
}

func (n *Node) bootstrap(l *custody.Ledger, mint thor.Address, boot *Bootstrap) error {
	auth := n.program.Authorities
	if err := l.CreateToken(mint, auth.MintAuthority, boot.Decimals); err != nil {
		return err
	}
	if err := l.OpenAccount(auth.Vault, mint, auth.VaultAuthority()); err != nil {
		return err
	}
	for holder, amount := range boot.Balances {
		if err := l.Mint(mint, holder, amount, auth.MintAuthority); err != nil {
			return err
		}
	}
	return nil
}

// SetAPR updates the annual rate. Admin only.
func (n *Node) SetAPR(ctx context.Context, caller thor.Address, aprBps uint64) error {
	_, err := n.execute(ctx, OpSetAPR, caller, lockPolicy, func(s *staker.Staker, _ *custody.Ledger, _ int64, ev *eventdb.Event) error {
		ev.Amount = aprBps
		return s.SetAPR(caller, aprBps)
	})
	return err
}

// UpdateFaucetCap updates the per-participant faucet cap. Admin only.
func (n *Node) UpdateFaucetCap(ctx context.Context, caller thor.Address, faucetCap uint64) error {
	_, err := n.execute(ctx, OpUpdateFaucetCap, caller, lockPolicy, func(s *staker.Staker, _ *custody.Ledger, _ int64, ev *eventdb.Event) error {
		ev.Amount = faucetCap
		return s.UpdateFaucetCap(caller, faucetCap)
	})
	return err
}

// SetOracleAuthority replaces the oracle authority. Admin only.
func (n *Node) SetOracleAuthority(ctx context.Context, caller, authority thor.Address) error {
	_, err := n.execute(ctx, OpSetOracleAuthority, caller, lockPolicy, func(s *staker.Staker, _ *custody.Ledger, _ int64, ev *eventdb.Event) error {
		ev.Data = authority.Bytes()
		return s.SetOracleAuthority(caller, authority)
	})
	return err
}

// SetPowConfig updates difficulty and reward under a fresh oracle nonce.
func (n *Node) SetPowConfig(ctx context.Context, caller thor.Address, difficulty uint8, reward, nonce uint64) error {
	_, err := n.execute(ctx, OpSetPowConfig, caller, lockPolicy, func(s *staker.Staker, _ *custody.Ledger, _ int64, ev *eventdb.Event) error {
		ev.Amount = reward
		ev.TaskID = nonce
		ev.Data = []byte{difficulty}
		return s.SetPowConfig(caller, difficulty, reward, nonce)
	})
	return err
}

// Stake locks amount of the caller's tokens.
func (n *Node) Stake(ctx context.Context, caller, mint thor.Address, amount uint64) error {
	_, err := n.execute(ctx, OpStake, caller, lockPolicyAndParticipant, func(s *staker.Staker, _ *custody.Ledger, now int64, ev *eventdb.Event) error {
		ev.Amount = amount
		return s.Stake(caller, mint, amount, now)
	})
	return err
}

// Unstake releases amount of the caller's staked tokens.
func (n *Node) Unstake(ctx context.Context, caller, mint thor.Address, amount uint64) error {
	_, err := n.execute(ctx, OpUnstake, caller, lockPolicyAndParticipant, func(s *staker.Staker, _ *custody.Ledger, now int64, ev *eventdb.Event) error {
		ev.Amount = amount
		return s.Unstake(caller, mint, amount, now)
	})
	return err
}

// Claim mints the caller's pending rewards and returns the claimed amount.
func (n *Node) Claim(ctx context.Context, caller, mint thor.Address) (uint64, error) {
	ev, err := n.execute(ctx, OpClaim, caller, lockParticipant, func(s *staker.Staker, _ *custody.Ledger, now int64, ev *eventdb.Event) error {
		claimed, err := s.Claim(caller, mint, now)
		ev.Amount = claimed
		return err
	})
	if err != nil {
		return 0, err
	}
	return ev.Amount, nil
}

// Faucet mints amount to the caller within the faucet cap.
func (n *Node) Faucet(ctx context.Context, caller, mint thor.Address, amount uint64) error {
	_, err := n.execute(ctx, OpFaucet, caller, lockParticipant, func(s *staker.Staker, _ *custody.Ledger, _ int64, ev *eventdb.Event) error {
		ev.Amount = amount
		return s.Faucet(caller, mint, amount)
	})
	return err
}

// RecordProof admits a proof of work for taskID.
func (n *Node) RecordProof(ctx context.Context, caller thor.Address, taskID, nonce uint64) (*pow.Record, error) {
	var proof *pow.Record
	_, err := n.execute(ctx, OpRecordProof, caller, lockParticipant, func(s *staker.Staker, _ *custody.Ledger, now int64, ev *eventdb.Event) error {
		ev.TaskID = taskID
		var err error
		if proof, err = s.RecordProof(caller, taskID, nonce, now); err != nil {
			return err
		}
		ev.Data = binary.LittleEndian.AppendUint64(nil, nonce)
		return nil
	})
	return proof, err
}
