// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	last, err := db.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	var events []*eventdb.Event
	for i := range 10 {
		caller, op := alice, "stake"
		if i%2 == 1 {
			caller, op = bob, "faucet"
		}
		events = append(events, &eventdb.Event{Time: int64(i), Op: op, Caller: caller, Amount: uint64(i) * 10})
	}
	events = append(events, &eventdb.Event{Time: 10, Op: "record_proof", Caller: alice, TaskID: math.MaxUint64, Amount: math.MaxUint64, Data: []byte{1, 2}})
	require.NoError(t, db.Insert(ctx, events...))
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.Equal(t, uint64(11), events[10].Seq)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), n)

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, events, all)

	got, err := db.Filter(ctx, &eventdb.Filter{Caller: &bob, Order: eventdb.DESC, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(10), got[0].Seq)
	assert.Equal(t, uint64(8), got[1].Seq)

	got, err = db.Filter(ctx, &eventdb.Filter{Op: "stake", Offset: 1, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	last, err = db.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, events[10], last)
}

func TestEventDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	assert.NotEmpty(t, db.DriverVersion())
	require.NoError(t, db.Insert(context.Background(), &eventdb.Event{Op: "claim", Caller: alice, Amount: 5}))
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, path, db.Path())
}
