// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/staker/accrual"
	"github.com/vechain/skillstake/builtin/staker/pow"
	"github.com/vechain/skillstake/builtin/staker/stakes"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "staker")

// InitParams are the arguments of Initialize.
type InitParams struct {
	APRBps          uint64
	FaucetCap       uint64
	PowReward       uint64
	PowDifficulty   uint8
	OracleAuthority thor.Address
	Mint            thor.Address
}

// Staker implements the staking ledger operations on top of the records of one transaction.
// Token movements are delegated to the custody collaborator.
type Staker struct {
	auth    *custody.Authorities
	custody custody.Custody

	policyService *policy.Service
	stakesService *stakes.Service
}

// New create a new instance.
func New(rctx *record.Context, auth *custody.Authorities, cust custody.Custody) *Staker {
	return &Staker{
		auth:          auth,
		custody:       cust,
		policyService: policy.New(rctx, auth.Policy),
		stakesService: stakes.New(rctx),
	}
}

//
// Getters - no state change
//

// Policy returns the policy record.
func (s *Staker) Policy() (*policy.Record, error) {
	return s.policyService.Get()
}

// GetStake returns owner's stake record. A participant that never interacted has an Uninitialized record.
func (s *Staker) GetStake(owner thor.Address) (*stakes.Record, error) {
	return s.stakesService.Get(owner)
}

// PreviewRewards returns the rewards owner could claim at now.
func (s *Staker) PreviewRewards(owner thor.Address, now int64) (uint64, error) {
	pol, err := s.policyService.Get()
	if err != nil {
		return 0, err
	}
	rec, err := s.stakesService.Get(owner)
	if err != nil {
		return 0, err
	}
	return accrual.Preview(rec, pol.APRBps, now)
}

//
// Policy administration
//

// Initialize creates the policy record. The caller becomes admin.
func (s *Staker) Initialize(caller thor.Address, p InitParams) (*policy.Record, error) {
	return s.policyService.Initialize(caller, policy.InitParams{
		APRBps:          p.APRBps,
		FaucetCap:       p.FaucetCap,
		PowReward:       p.PowReward,
		PowDifficulty:   p.PowDifficulty,
		OracleAuthority: p.OracleAuthority,
		Mint:            p.Mint,
		Vault:           s.auth.Vault,
		Bump:            s.auth.PolicyBump,
		VaultBump:       s.auth.VaultBump,
		MintAuthBump:    s.auth.MintAuthBump,
	})
}

func (s *Staker) SetAPR(caller thor.Address, aprBps uint64) error {
	return s.policyService.SetAPR(caller, aprBps)
}

func (s *Staker) UpdateFaucetCap(caller thor.Address, faucetCap uint64) error {
	return s.policyService.UpdateFaucetCap(caller, faucetCap)
}

func (s *Staker) SetOracleAuthority(caller, authority thor.Address) error {
	return s.policyService.SetOracleAuthority(caller, authority)
}

func (s *Staker) SetPowConfig(caller thor.Address, difficulty uint8, reward, nonce uint64) error {
	return s.policyService.SetPowConfig(caller, difficulty, reward, nonce)
}

//
// Ledger operations
//

// Stake locks amount of caller's tokens in the vault.
func (s *Staker) Stake(caller, mint thor.Address, amount uint64, now int64) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount
	}
	pol, err := s.policyWithMint(mint)
	if err != nil {
		return err
	}
	rec, err := s.stakesService.Get(caller)
	if err != nil {
		return err
	}
	if !rec.IsOwned() {
		if err := s.open(rec, caller); err != nil {
			return err
		}
		rec.LastAccruedTs = now
	} else {
		if err := rec.Authorize(caller); err != nil {
			return err
		}
		if err := accrual.Accrue(rec, pol.APRBps, now); err != nil {
			return err
		}
	}

	staked, overflow := math.SafeAdd(rec.AmountStaked, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}
	total, overflow := math.SafeAdd(pol.TotalStaked, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}

	if err := s.custody.Transfer(caller, pol.Vault, amount, caller); err != nil {
		return err
	}

	rec.AmountStaked = staked
	pol.TotalStaked = total
	if err := s.save(pol, rec); err != nil {
		return err
	}
	logger.Debug("staked", "owner", caller, "amount", amount, "staked", staked, "total", total)
	return nil
}

// Unstake returns amount of caller's staked tokens from the vault.
func (s *Staker) Unstake(caller, mint thor.Address, amount uint64, now int64) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount
	}
	pol, err := s.policyWithMint(mint)
	if err != nil {
		return err
	}
	rec, err := s.stakesService.Get(caller)
	if err != nil {
		return err
	}
	if err := rec.Authorize(caller); err != nil {
		return err
	}
	if rec.AmountStaked < amount {
		return reverts.ErrInsufficientStake
	}
	if err := accrual.Accrue(rec, pol.APRBps, now); err != nil {
		return err
	}

	staked, overflow := math.SafeSub(rec.AmountStaked, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}
	total, overflow := math.SafeSub(pol.TotalStaked, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}

	if err := s.custody.Transfer(pol.Vault, caller, amount, s.auth.VaultAuthority()); err != nil {
		return err
	}

	rec.AmountStaked = staked
	pol.TotalStaked = total
	if err := s.save(pol, rec); err != nil {
		return err
	}
	logger.Debug("unstaked", "owner", caller, "amount", amount, "staked", staked, "total", total)
	return nil
}

// Claim mints caller's pending rewards and returns the claimed amount.
func (s *Staker) Claim(caller, mint thor.Address, now int64) (uint64, error) {
	pol, err := s.policyWithMint(mint)
	if err != nil {
		return 0, err
	}
	rec, err := s.stakesService.Get(caller)
	if err != nil {
		return 0, err
	}
	if err := rec.Authorize(caller); err != nil {
		return 0, err
	}
	if err := accrual.Accrue(rec, pol.APRBps, now); err != nil {
		return 0, err
	}
	rewards := rec.PendingRewards
	if rewards == 0 {
		return 0, reverts.ErrNothingToClaim
	}

	if err := s.custody.Mint(pol.Mint, caller, rewards, s.auth.MintAuthority); err != nil {
		return 0, err
	}

	rec.PendingRewards = 0
	if err := s.stakesService.Set(rec); err != nil {
		return 0, err
	}
	logger.Debug("claimed", "owner", caller, "rewards", rewards)
	return rewards, nil
}

// Faucet mints amount to caller, up to the per-participant faucet cap. It does not accrue rewards.
func (s *Staker) Faucet(caller, mint thor.Address, amount uint64) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount
	}
	pol, err := s.policyWithMint(mint)
	if err != nil {
		return err
	}
	rec, err := s.stakesService.Get(caller)
	if err != nil {
		return err
	}
	if !rec.IsOwned() {
		if err := s.open(rec, caller); err != nil {
			return err
		}
	} else if err := rec.Authorize(caller); err != nil {
		return err
	}

	claimed, overflow := math.SafeAdd(rec.FaucetClaimed, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}
	if claimed > pol.FaucetCap {
		logger.Debug("faucet cap exceeded", "owner", caller, "claimed", rec.FaucetClaimed, "amount", amount, "cap", pol.FaucetCap)
		return reverts.ErrFaucetCapExceeded
	}

	if err := s.custody.Mint(pol.Mint, caller, amount, s.auth.MintAuthority); err != nil {
		return err
	}

	rec.FaucetClaimed = claimed
	if err := s.stakesService.Set(rec); err != nil {
		return err
	}
	logger.Debug("faucet", "owner", caller, "amount", amount, "claimed", claimed)
	return nil
}

// RecordProof admits a proof of work for taskID and credits the proof reward.
// A proof below the configured difficulty changes nothing.
func (s *Staker) RecordProof(caller thor.Address, taskID, nonce uint64, now int64) (*pow.Record, error) {
	pol, err := s.policyService.Get()
	if err != nil {
		return nil, err
	}
	rec, err := s.stakesService.Get(caller)
	if err != nil {
		return nil, err
	}
	if err := rec.Authorize(caller); err != nil {
		return nil, err
	}
	if taskID <= rec.LastTaskID {
		return nil, reverts.ErrProofTaskReplay
	}
	if err := accrual.Accrue(rec, pol.APRBps, now); err != nil {
		return nil, err
	}

	proof, ok := pow.Verify(caller, pol.Mint, taskID, nonce, pol.PowDifficulty)
	if !ok {
		logger.Debug("proof rejected", "owner", caller, "task", taskID, "nonce", nonce, "difficulty", pol.PowDifficulty)
		return nil, reverts.ErrProofDifficultyNotMet
	}

	if pol.PowReward > 0 {
		pending, overflow := math.SafeAdd(rec.PendingRewards, pol.PowReward)
		if overflow {
			return nil, reverts.ErrMathOverflow
		}
		rec.PendingRewards = pending
	}

	encoded, err := proof.Encode()
	if err != nil {
		return nil, err
	}
	if len(encoded) > thor.MaxProofStorage {
		return nil, reverts.ErrProofTooLarge
	}
	rec.LastProof = encoded
	rec.LastProofTs = now
	rec.LastTaskID = taskID

	if err := s.stakesService.Set(rec); err != nil {
		return nil, err
	}
	logger.Debug("proof recorded", "owner", caller, "task", taskID, "reward", pol.PowReward)
	return proof, nil
}

func (s *Staker) policyWithMint(mint thor.Address) (*policy.Record, error) {
	pol, err := s.policyService.Get()
	if err != nil {
		return nil, err
	}
	if pol.Mint != mint {
		return nil, reverts.ErrMintMismatch
	}
	if err := s.auth.Check(pol.Vault, pol.Bump, pol.VaultBump, pol.MintAuthBump); err != nil {
		return nil, err
	}
	return pol, nil
}

func (s *Staker) open(rec *stakes.Record, owner thor.Address) error {
	_, bump, err := s.stakesService.Address(owner)
	if err != nil {
		return err
	}
	return rec.Open(owner, bump)
}

func (s *Staker) save(pol *policy.Record, rec *stakes.Record) error {
	if err := s.stakesService.Set(rec); err != nil {
		return err
	}
	return s.policyService.Set(pol)
}
