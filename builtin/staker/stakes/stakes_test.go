// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var (
	program = thor.BytesToAddress([]byte("program"))
	alice   = thor.BytesToAddress([]byte("alice"))
	bob     = thor.BytesToAddress([]byte("bob"))
)

func TestRecordCodec(t *testing.T) {
	rec := &Record{
		Owner:          alice,
		AmountStaked:   1,
		PendingRewards: 2,
		FaucetClaimed:  3,
		LastAccruedTs:  -4,
		LastProofTs:    5,
		LastTaskID:     6,
		Bump:           254,
		LastProof:      bytes.Repeat([]byte{0xab}, 48),
	}
	data, err := rec.Encode()
	require.NoError(t, err)
	assert.Len(t, data, PrefixSize+4+48)
	assert.Equal(t, 88, PrefixSize)
	assert.Equal(t, []byte{48, 0, 0, 0}, data[PrefixSize:PrefixSize+4])

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)

	empty := &Record{Owner: bob}
	data, err = empty.Encode()
	require.NoError(t, err)
	assert.Len(t, data, PrefixSize+4)
	decoded, err = Decode(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.LastProof)

	_, err = Decode(data[:PrefixSize])
	assert.Error(t, err)

	rec.LastProof = make([]byte, thor.MaxProofStorage+1)
	_, err = rec.Encode()
	assert.ErrorIs(t, err, reverts.ErrProofTooLarge)
}

func TestRecordLifecycle(t *testing.T) {
	var rec Record
	assert.False(t, rec.IsOwned())
	assert.ErrorIs(t, rec.Authorize(alice), reverts.ErrUnauthorized)
	assert.ErrorIs(t, rec.Open(thor.Address{}, 1), reverts.ErrUnauthorized)

	require.NoError(t, rec.Open(alice, 7))
	assert.True(t, rec.IsOwned())
	assert.Equal(t, uint8(7), rec.Bump)
	assert.NoError(t, rec.Authorize(alice))
	assert.ErrorIs(t, rec.Authorize(bob), reverts.ErrUnauthorized)

	// ownership is immutable
	assert.ErrorIs(t, rec.Open(bob, 1), reverts.ErrUnauthorized)
	assert.Equal(t, alice, rec.Owner)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.NewStater(db, 0).NewState()
	svc := New(record.NewContext(program, st))

	rec, err := svc.Get(alice)
	require.NoError(t, err)
	assert.False(t, rec.IsOwned())
	assert.Error(t, svc.Set(rec))

	_, bump, err := svc.Address(alice)
	require.NoError(t, err)
	require.NoError(t, rec.Open(alice, bump))
	rec.AmountStaked = 10
	require.NoError(t, svc.Set(rec))

	got, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// stored at the derived address, not at the owner
	addr, _, err := Address(program, alice)
	require.NoError(t, err)
	assert.NotEqual(t, alice, addr)
	raw, err := st.Get(state.Key{Space: state.StakeSpace, Addr: addr})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.True(t, thor.VerifyProgramAddress(addr, [][]byte{Seed, alice[:]}, got.Bump, program))

	other, err := svc.Get(bob)
	require.NoError(t, err)
	assert.False(t, other.IsOwned())
}
