// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

func newStater(t *testing.T) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewStater(db, 16)
}

func TestStateCheckpoint(t *testing.T) {
	st := newStater(t).NewState()
	alice := state.Key{Space: state.StakeSpace, Addr: thor.BytesToAddress([]byte("alice"))}

	v, err := st.Get(alice)
	require.NoError(t, err)
	assert.Nil(t, v)

	st.Put(alice, []byte{1})
	cp := st.NewCheckpoint()
	st.Put(alice, []byte{2})

	v, _ = st.Get(alice)
	assert.Equal(t, []byte{2}, v)

	st.RevertTo(cp)
	v, _ = st.Get(alice)
	assert.Equal(t, []byte{1}, v)
}

func TestStageCommit(t *testing.T) {
	stater := newStater(t)
	alice := state.Key{Space: state.StakeSpace, Addr: thor.BytesToAddress([]byte("alice"))}
	bob := state.Key{Space: state.StakeSpace, Addr: thor.BytesToAddress([]byte("bob"))}
	policy := state.Key{Space: state.PolicySpace}

	st := stater.NewState()
	st.Put(alice, []byte("a1"))
	st.Put(alice, []byte("a2"))
	st.Put(bob, []byte("b"))
	st.Put(policy, []byte("p"))

	stage := st.Stage()
	assert.Equal(t, 3, stage.Len())
	assert.Equal(t, policy, stage.Keys()[0])

	// not visible before commit
	v, err := stater.NewState().Get(alice)
	require.NoError(t, err)
	assert.Nil(t, v)

	// the read above cached a miss, commit must refresh it
	require.NoError(t, stage.Commit(stater))

	v, err = stater.NewState().Get(alice)
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), v)

	n, err := stater.Count(state.StakeSpace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var seen []thor.Address
	require.NoError(t, stater.ForEach(state.StakeSpace, func(addr thor.Address, value []byte) (bool, error) {
		seen = append(seen, addr)
		return true, nil
	}))
	assert.ElementsMatch(t, []thor.Address{alice.Addr, bob.Addr}, seen)
}

func TestRevertedWritesNotStaged(t *testing.T) {
	stater := newStater(t)
	key := state.Key{Space: state.BalanceSpace, Addr: thor.BytesToAddress([]byte("vault"))}

	st := stater.NewState()
	cp := st.NewCheckpoint()
	st.Put(key, []byte{9})
	st.RevertTo(cp)

	stage := st.Stage()
	assert.Equal(t, 0, stage.Len())
	require.NoError(t, stage.Commit(stater))

	n, err := stater.Count(state.BalanceSpace)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEncodeDecodeRecord(t *testing.T) {
	st := newStater(t).NewState()
	key := state.Key{Space: state.TokenSpace}

	require.NoError(t, st.EncodeRecord(key, func() ([]byte, error) { return []byte("token"), nil }))

	var got string
	require.NoError(t, st.DecodeRecord(key, func(b []byte) error {
		got = string(b)
		return nil
	}))
	assert.Equal(t, "token", got)
}
