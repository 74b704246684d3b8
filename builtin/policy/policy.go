// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package policy

import (
	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "policy")

// InitParams are the arguments of Initialize.
type InitParams struct {
	APRBps          uint64
	FaucetCap       uint64
	PowReward       uint64
	PowDifficulty   uint8
	OracleAuthority thor.Address // zero defaults to the caller

	Mint         thor.Address
	Vault        thor.Address
	Bump         uint8
	VaultBump    uint8
	MintAuthBump uint8
}

// Service manages the policy record, stored at the program's policy address.
type Service struct {
	addr    thor.Address
	records *record.Mapping[Record, *Record]
}

func New(rctx *record.Context, addr thor.Address) *Service {
	return &Service{
		addr:    addr,
		records: record.NewMapping[Record](rctx, state.PolicySpace),
	}
}

// Get returns the policy record. It fails with NotInitialized if the record was never created.
func (s *Service) Get() (*Record, error) {
	rec, exists, err := s.records.Get(s.addr)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, reverts.ErrNotInitialized
	}
	return rec, nil
}

// Set persists the policy record.
func (s *Service) Set(rec *Record) error {
	return s.records.Set(s.addr, rec)
}

// Initialize creates the policy record. The caller becomes admin.
func (s *Service) Initialize(caller thor.Address, p InitParams) (*Record, error) {
	if _, exists, err := s.records.Get(s.addr); err != nil {
		return nil, err
	} else if exists {
		return nil, reverts.ErrAlreadyInitialized
	}
	if caller.IsZero() {
		return nil, reverts.ErrUnauthorized
	}
	if err := validateAPR(p.APRBps); err != nil {
		return nil, err
	}
	if err := validateDifficulty(p.PowDifficulty); err != nil {
		return nil, err
	}

	oracle := p.OracleAuthority
	if oracle.IsZero() {
		oracle = caller
	}

	rec := &Record{
		Admin:           caller,
		OracleAuthority: oracle,
		Mint:            p.Mint,
		Vault:           p.Vault,
		APRBps:          p.APRBps,
		TotalStaked:     0,
		FaucetCap:       p.FaucetCap,
		PowReward:       p.PowReward,
		OracleNonce:     0,
		PowDifficulty:   p.PowDifficulty,
		Bump:            p.Bump,
		VaultBump:       p.VaultBump,
		MintAuthBump:    p.MintAuthBump,
	}
	if err := s.Set(rec); err != nil {
		return nil, err
	}
	logger.Info("policy initialized", "admin", caller, "oracle", oracle, "apr", p.APRBps, "difficulty", p.PowDifficulty)
	return rec, nil
}

// SetAPR updates the annual rate in basis points. Admin only.
// The rate bound is checked before the caller.
func (s *Service) SetAPR(caller thor.Address, aprBps uint64) error {
	rec, err := s.Get()
	if err != nil {
		return err
	}
	if err := validateAPR(aprBps); err != nil {
		return err
	}
	if !rec.IsAdmin(caller) {
		return reverts.ErrUnauthorized
	}
	rec.APRBps = aprBps
	logger.Debug("apr updated", "apr", aprBps)
	return s.Set(rec)
}

// UpdateFaucetCap updates the per-participant faucet ceiling. Admin only.
// The cap may be set below amounts already claimed.
func (s *Service) UpdateFaucetCap(caller thor.Address, faucetCap uint64) error {
	rec, err := s.adminRecord(caller)
	if err != nil {
		return err
	}
	rec.FaucetCap = faucetCap
	logger.Debug("faucet cap updated", "cap", faucetCap)
	return s.Set(rec)
}

// SetOracleAuthority replaces the oracle authority. Admin only.
func (s *Service) SetOracleAuthority(caller thor.Address, authority thor.Address) error {
	rec, err := s.adminRecord(caller)
	if err != nil {
		return err
	}
	if authority.IsZero() {
		return reverts.ErrInvalidOracleAuthority
	}
	rec.OracleAuthority = authority
	logger.Debug("oracle authority updated", "oracle", authority)
	return s.Set(rec)
}

// SetPowConfig stores difficulty, reward and nonce at once. The caller must be
// the oracle authority or the admin, and the nonce must strictly increase.
// The difficulty bound is checked before the caller.
func (s *Service) SetPowConfig(caller thor.Address, difficulty uint8, reward uint64, nonce uint64) error {
	rec, err := s.Get()
	if err != nil {
		return err
	}
	if err := validateDifficulty(difficulty); err != nil {
		return err
	}
	if !rec.IsOracle(caller) {
		return reverts.ErrUnauthorized
	}
	if nonce <= rec.OracleNonce {
		logger.Info("stale oracle update", "nonce", nonce, "stored", rec.OracleNonce)
		return reverts.ErrStaleOracleUpdate
	}
	rec.PowDifficulty = difficulty
	rec.PowReward = reward
	rec.OracleNonce = nonce
	logger.Debug("pow config updated", "difficulty", difficulty, "reward", reward, "nonce", nonce)
	return s.Set(rec)
}

func (s *Service) adminRecord(caller thor.Address) (*Record, error) {
	rec, err := s.Get()
	if err != nil {
		return nil, err
	}
	if !rec.IsAdmin(caller) {
		return nil, reverts.ErrUnauthorized
	}
	return rec, nil
}

func validateAPR(aprBps uint64) error {
	if aprBps > thor.MaxAPRBps {
		return reverts.ErrAprTooHigh
	}
	return nil
}

func validateDifficulty(difficulty uint8) error {
	if difficulty > thor.MaxPowDifficulty {
		return reverts.ErrInvalidPowDifficulty
	}
	return nil
}
