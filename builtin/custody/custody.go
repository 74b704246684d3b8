// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/thor"
)

// Custody holds fungible token balances and moves them on the ledger's instruction.
type Custody interface {
	// Transfer moves amount from one account to another. authorizedBy must own the source account.
	Transfer(from, to thor.Address, amount uint64, authorizedBy thor.Address) error
	// Mint creates amount new tokens of mint into account to. authorizedBy must be the mint's authority.
	Mint(mint, to thor.Address, amount uint64, authorizedBy thor.Address) error
}

var (
	ErrInsufficientFunds   = reverts.New(reverts.KindBusiness, "InsufficientFunds", "insufficient token balance")
	ErrCustodyUnauthorized = reverts.New(reverts.KindAuthorization, "CustodyUnauthorized", "signer does not control the account")
	ErrUnknownToken        = reverts.New(reverts.KindConsistency, "UnknownToken", "token does not exist")
	ErrTokenExists         = reverts.New(reverts.KindConsistency, "TokenExists", "token already exists")
	ErrAccountMintMismatch = reverts.New(reverts.KindConsistency, "AccountMintMismatch", "account holds a different token")
	ErrInvalidDerivation   = reverts.New(reverts.KindConsistency, "InvalidDerivation", "persisted derivation does not match the program")
)
