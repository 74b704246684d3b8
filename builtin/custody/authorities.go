// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/thor"
)

// Seeds of the policy derived identities.
var (
	PolicySeed   = []byte("state")
	VaultSeed    = []byte("vault")
	MintAuthSeed = []byte("mint_auth")
)

// Authorities are the identities derived from the program. None of them has a private key:
// the policy address doubles as the vault authority, allowed to move staked principal out of
// the vault, while the mint authority may only create new supply.
type Authorities struct {
	Program thor.Address

	Policy     thor.Address
	PolicyBump uint8

	Vault     thor.Address
	VaultBump uint8

	MintAuthority thor.Address
	MintAuthBump  uint8
}

// NewAuthorities derives the authorities of program.
func NewAuthorities(program thor.Address) (*Authorities, error) {
	a := &Authorities{Program: program}

	var err error
	if a.Policy, a.PolicyBump, err = thor.FindProgramAddress([][]byte{PolicySeed}, program); err != nil {
		return nil, errors.WithMessage(err, "derive policy address")
	}
	if a.Vault, a.VaultBump, err = thor.FindProgramAddress([][]byte{VaultSeed}, program); err != nil {
		return nil, errors.WithMessage(err, "derive vault address")
	}
	if a.MintAuthority, a.MintAuthBump, err = thor.FindProgramAddress([][]byte{MintAuthSeed}, program); err != nil {
		return nil, errors.WithMessage(err, "derive mint authority")
	}
	if err := a.check(); err != nil {
		return nil, err
	}
	return a, nil
}

// VaultAuthority returns the identity that may move funds out of the vault.
func (a *Authorities) VaultAuthority() thor.Address {
	return a.Policy
}

// Verify checks the persisted bumps against the derivation.
func (a *Authorities) Verify(policyBump, vaultBump, mintAuthBump uint8) bool {
	return thor.VerifyProgramAddress(a.Policy, [][]byte{PolicySeed}, policyBump, a.Program) &&
		thor.VerifyProgramAddress(a.Vault, [][]byte{VaultSeed}, vaultBump, a.Program) &&
		thor.VerifyProgramAddress(a.MintAuthority, [][]byte{MintAuthSeed}, mintAuthBump, a.Program)
}

// Check fails with ErrInvalidDerivation unless vault and the persisted bumps were derived
// from the program.
func (a *Authorities) Check(vault thor.Address, policyBump, vaultBump, mintAuthBump uint8) error {
	if vault != a.Vault || !a.Verify(policyBump, vaultBump, mintAuthBump) {
		return ErrInvalidDerivation
	}
	return nil
}

func (a *Authorities) check() error {
	if a.VaultAuthority() == a.MintAuthority {
		return errors.New("vault authority and mint authority must differ")
	}
	if a.Vault == a.VaultAuthority() || a.Vault == a.MintAuthority {
		return errors.New("vault must differ from the authorities")
	}
	return nil
}
