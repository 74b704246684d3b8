// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// Staker is the staking program binding.
var Staker = mustLoadProgram("skillstake")

// Program is a program identity together with its derived authorities.
type Program struct {
	name        string
	Address     thor.Address
	Authorities *custody.Authorities
}

// NewProgram binds the program deployed at addr.
func NewProgram(name string, addr thor.Address) (*Program, error) {
	auth, err := custody.NewAuthorities(addr)
	if err != nil {
		return nil, fmt.Errorf("load program '%s': %w", name, err)
	}
	return &Program{name, addr, auth}, nil
}

func mustLoadProgram(name string) *Program {
	p, err := NewProgram(name, thor.BytesToAddress([]byte(name)))
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// WithState binds the program to the records of one transaction. The returned ledger shares
// the state, so staker and custody mutations are journaled together.
func (p *Program) WithState(state *state.State) (*staker.Staker, *custody.Ledger) {
	rctx := record.NewContext(p.Address, state)
	ledger := custody.NewLedger(rctx)
	return staker.New(rctx, p.Authorities, ledger), ledger
}
