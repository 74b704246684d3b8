// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

func TestStakerBinding(t *testing.T) {
	assert.Equal(t, "skillstake", Staker.Name())
	assert.Equal(t, thor.BytesToAddress([]byte("skillstake")), Staker.Address)
	assert.Equal(t, Staker.Address, Staker.Authorities.Program)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	stater := state.NewStater(db, 0)
	st := stater.NewState()
	s, ledger := Staker.WithState(st)

	mint := thor.BytesToAddress([]byte("mint"))
	require.NoError(t, ledger.CreateToken(mint, Staker.Authorities.MintAuthority, 9))
	_, err = s.Initialize(thor.BytesToAddress([]byte("admin")), stakerParams(mint))
	require.NoError(t, err)
	require.NoError(t, st.Stage().Commit(stater))

	// committed records are visible to a later transaction
	s, _ = Staker.WithState(stater.NewState())
	pol, err := s.Policy()
	require.NoError(t, err)
	assert.Equal(t, mint, pol.Mint)
	assert.Equal(t, Staker.Authorities.Vault, pol.Vault)

	n, err := stater.Count(state.PolicySpace)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func stakerParams(mint thor.Address) staker.InitParams {
	return staker.InitParams{APRBps: 500, FaucetCap: 1000, PowDifficulty: 4, Mint: mint}
}
