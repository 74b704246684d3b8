// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// Context binds the program identity to the state of the running transaction.
type Context struct {
	program thor.Address
	state   *state.State
}

func NewContext(program thor.Address, state *state.State) *Context {
	return &Context{
		program: program,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Program() thor.Address {
	return c.program
}
