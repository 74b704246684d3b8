// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "custody")

var _ Custody = (*Ledger)(nil)

// Ledger is the token ledger kept in the same state as the staking records,
// so custody moves are reverted and committed together with them.
//
// An account missing from the ledger is created on first credit, owned by its own address.
// No supply counter is kept: concurrent mints of different participants touch disjoint records.
type Ledger struct {
	tokens   *record.Mapping[Token, *Token]
	accounts *record.Mapping[Account, *Account]
}

func NewLedger(rctx *record.Context) *Ledger {
	return &Ledger{
		tokens:   record.NewMapping[Token](rctx, state.TokenSpace),
		accounts: record.NewMapping[Account](rctx, state.BalanceSpace),
	}
}

// CreateToken registers a new token mintable by authority.
func (l *Ledger) CreateToken(mint, authority thor.Address, decimals uint8) error {
	if _, exists, err := l.tokens.Get(mint); err != nil {
		return err
	} else if exists {
		return ErrTokenExists
	}
	return l.tokens.Set(mint, &Token{Authority: authority, Decimals: decimals})
}

// Token returns the token registered at mint.
func (l *Ledger) Token(mint thor.Address) (*Token, error) {
	tok, exists, err := l.tokens.Get(mint)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownToken
	}
	return tok, nil
}

// OpenAccount creates an empty account of mint at addr owned by owner.
// Opening an existing account with the same mint and owner is a no-op.
func (l *Ledger) OpenAccount(addr, mint, owner thor.Address) error {
	if _, err := l.Token(mint); err != nil {
		return err
	}
	acc, exists, err := l.accounts.Get(addr)
	if err != nil {
		return err
	}
	if exists {
		if acc.Mint != mint {
			return ErrAccountMintMismatch
		}
		if acc.Owner != owner {
			return ErrCustodyUnauthorized
		}
		return nil
	}
	return l.accounts.Set(addr, &Account{Mint: mint, Owner: owner})
}

// Account returns the account at addr and whether it exists.
func (l *Ledger) Account(addr thor.Address) (*Account, bool, error) {
	return l.accounts.Get(addr)
}

// BalanceOf returns the balance held at addr. Missing accounts hold zero.
func (l *Ledger) BalanceOf(addr thor.Address) (uint64, error) {
	acc, _, err := l.accounts.Get(addr)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Transfer implements Custody.
func (l *Ledger) Transfer(from, to thor.Address, amount uint64, authorizedBy thor.Address) error {
	src, exists, err := l.accounts.Get(from)
	if err != nil {
		return err
	}
	if !exists {
		// an unopened account holds nothing
		if from == authorizedBy {
			return ErrInsufficientFunds
		}
		return ErrCustodyUnauthorized
	}
	if src.Owner != authorizedBy {
		return ErrCustodyUnauthorized
	}
	if src.Balance < amount {
		return ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	dst, err := l.creditable(to, src.Mint)
	if err != nil {
		return err
	}
	balance, overflow := math.SafeAdd(dst.Balance, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}

	src.Balance -= amount
	dst.Balance = balance
	if err := l.accounts.Set(from, src); err != nil {
		return err
	}
	if err := l.accounts.Set(to, dst); err != nil {
		return err
	}
	logger.Trace("transfer", "from", from, "to", to, "amount", amount)
	return nil
}

// Mint implements Custody.
func (l *Ledger) Mint(mint, to thor.Address, amount uint64, authorizedBy thor.Address) error {
	tok, err := l.Token(mint)
	if err != nil {
		return err
	}
	if tok.Authority != authorizedBy {
		return ErrCustodyUnauthorized
	}
	dst, err := l.creditable(to, mint)
	if err != nil {
		return err
	}
	balance, overflow := math.SafeAdd(dst.Balance, amount)
	if overflow {
		return reverts.ErrMathOverflow
	}
	dst.Balance = balance
	if err := l.accounts.Set(to, dst); err != nil {
		return err
	}
	logger.Trace("mint", "mint", mint, "to", to, "amount", amount)
	return nil
}

// creditable loads the account at addr for crediting mint tokens.
func (l *Ledger) creditable(addr, mint thor.Address) (*Account, error) {
	acc, exists, err := l.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &Account{Mint: mint, Owner: addr}, nil
	}
	if acc.Mint != mint {
		return nil, ErrAccountMintMismatch
	}
	return acc, nil
}
