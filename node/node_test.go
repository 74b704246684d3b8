// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

const t0 = int64(1_700_000_000)

var (
	mint   = thor.BytesToAddress([]byte("mint"))
	admin  = thor.BytesToAddress([]byte("admin"))
	oracle = thor.BytesToAddress([]byte("oracle"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
)

type testClock struct {
	now atomic.Int64
}

func newTestClock(start int64) *testClock {
	c := &testClock{}
	c.now.Store(start)
	return c
}

func (c *testClock) read() int64        { return c.now.Load() }
func (c *testClock) advance(secs int64) { c.now.Add(secs) }

func newTestNode(t *testing.T) (*Node, *testClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	clock := newTestClock(t0)
	n := New(builtin.Staker, state.NewStater(db, 1024), events, Options{Clock: clock.read})
	t.Cleanup(n.Close)
	return n, clock
}

func initParams(difficulty uint8) staker.InitParams {
	return staker.InitParams{
		APRBps:          1000,
		FaucetCap:       1_000,
		PowReward:       50,
		PowDifficulty:   difficulty,
		OracleAuthority: oracle,
		Mint:            mint,
	}
}

func initNode(t *testing.T, n *Node) {
	_, err := n.Initialize(context.Background(), admin, initParams(0), &Bootstrap{
		Decimals: 9,
		Balances: map[thor.Address]uint64{alice: 1_000_000, bob: 500_000},
	})
	require.NoError(t, err)
}

func TestInitializeBootstraps(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	_, err := n.Policy()
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	initNode(t, n)

	pol, err := n.Policy()
	require.NoError(t, err)
	assert.Equal(t, admin, pol.Admin)
	assert.Equal(t, builtin.Staker.Authorities.Vault, pol.Vault)

	bal, err := n.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), bal)

	// the second initialize fails before touching the token
	_, err = n.Initialize(ctx, bob, initParams(0), &Bootstrap{Balances: map[thor.Address]uint64{bob: 1}})
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
	bal, err = n.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), bal)
	assert.Equal(t, t0, n.LastCommit())
}

func TestStakeClaimUnstake(t *testing.T) {
	n, clock := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)

	require.NoError(t, n.Stake(ctx, alice, mint, 1_000_000))
	clock.advance(thor.SecondsPerYear)

	view, err := n.GetStake(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), view.PreviewRewards)
	assert.Equal(t, uint64(0), view.Balance)
	assert.Equal(t, uint64(1), view.NextTaskID)
	assert.NotEqual(t, alice, view.Address)

	claimed, err := n.Claim(ctx, alice, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), claimed)

	_, err = n.Claim(ctx, alice, mint)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)

	require.NoError(t, n.Unstake(ctx, alice, mint, 400_000))
	bal, err := n.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), bal)

	report, err := n.Verify(ctx, nil)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Records)
	assert.Equal(t, uint64(600_000), report.TotalStaked)
}

func TestRevertLeavesNoTrace(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)

	// the stake record would be opened, but the transfer fails
	err := n.Stake(ctx, alice, mint, 2_000_000)
	assert.ErrorIs(t, err, custody.ErrInsufficientFunds)

	view, err := n.GetStake(alice)
	require.NoError(t, err)
	assert.False(t, view.Record.IsOwned())

	pol, err := n.Policy()
	require.NoError(t, err)
	assert.Zero(t, pol.TotalStaked)

	count, err := n.events.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count) // initialize only
}

func TestFaucetAndProofs(t *testing.T) {
	n, clock := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)

	carol := thor.BytesToAddress([]byte("carol"))
	_, err := n.RecordProof(ctx, carol, 1, 0)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	require.NoError(t, n.Faucet(ctx, carol, mint, 600))
	assert.ErrorIs(t, n.Faucet(ctx, carol, mint, 401), reverts.ErrFaucetCapExceeded)

	view, err := n.GetStake(carol)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), view.FaucetRemaining)
	assert.Equal(t, uint64(600), view.Balance)

	proof, err := n.RecordProof(ctx, carol, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), proof.Nonce)

	_, err = n.RecordProof(ctx, carol, 1, 100)
	assert.ErrorIs(t, err, reverts.ErrProofTaskReplay)

	ch, err := n.Challenge(carol)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), ch.NextTaskID)
	assert.Equal(t, uint64(50), ch.Reward)
	assert.Equal(t, mint, ch.Mint)

	clock.advance(10)
	claimed, err := n.Claim(ctx, carol, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), claimed)
}

func TestLastTaskID(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)
	require.NoError(t, n.Faucet(ctx, alice, mint, 1))

	view, err := n.GetStake(alice)
	require.NoError(t, err)
	assert.False(t, view.ProofsExhausted)
	assert.Equal(t, uint64(1), view.NextTaskID)

	_, err = n.RecordProof(ctx, alice, math.MaxUint64, 0)
	require.NoError(t, err)

	view, err = n.GetStake(alice)
	require.NoError(t, err)
	assert.True(t, view.ProofsExhausted)
	assert.Zero(t, view.NextTaskID)

	ch, err := n.Challenge(alice)
	require.NoError(t, err)
	assert.True(t, ch.ProofsExhausted)
	assert.Zero(t, ch.NextTaskID)

	_, err = n.RecordProof(ctx, alice, math.MaxUint64, 1)
	assert.ErrorIs(t, err, reverts.ErrProofTaskReplay)
}

func TestAdminOps(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)

	assert.ErrorIs(t, n.SetAPR(ctx, alice, 5), reverts.ErrUnauthorized)
	assert.ErrorIs(t, n.SetAPR(ctx, admin, thor.MaxAPRBps+1), reverts.ErrAprTooHigh)
	require.NoError(t, n.SetAPR(ctx, admin, 500))
	require.NoError(t, n.UpdateFaucetCap(ctx, admin, 10))

	newOracle := thor.BytesToAddress([]byte("oracle2"))
	assert.ErrorIs(t, n.SetOracleAuthority(ctx, admin, thor.Address{}), reverts.ErrInvalidOracleAuthority)
	require.NoError(t, n.SetOracleAuthority(ctx, admin, newOracle))

	require.NoError(t, n.SetPowConfig(ctx, newOracle, 12, 7, 1))
	assert.ErrorIs(t, n.SetPowConfig(ctx, newOracle, 12, 7, 1), reverts.ErrStaleOracleUpdate)
	assert.ErrorIs(t, n.SetPowConfig(ctx, oracle, 12, 7, 2), reverts.ErrUnauthorized)

	pol, err := n.Policy()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), pol.APRBps)
	assert.Equal(t, uint64(10), pol.FaucetCap)
	assert.Equal(t, newOracle, pol.OracleAuthority)
	assert.Equal(t, uint8(12), pol.PowDifficulty)
	assert.Equal(t, uint64(7), pol.PowReward)
	assert.Equal(t, uint64(1), pol.OracleNonce)
}

func TestEventsJournaledAndFed(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	ch := make(chan *eventdb.Event, 16)
	sub := n.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	initNode(t, n)
	require.NoError(t, n.Stake(ctx, alice, mint, 10))
	require.NoError(t, n.Stake(ctx, bob, mint, 20))
	assert.Error(t, n.Stake(ctx, bob, mint, 0))

	var fed []*eventdb.Event
	for range 3 {
		select {
		case ev := <-ch:
			fed = append(fed, ev)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
	assert.Equal(t, OpInitialize, fed[0].Op)
	assert.Equal(t, OpStake, fed[1].Op)
	assert.Equal(t, uint64(10), fed[1].Amount)

	evs, err := n.Events(ctx, &eventdb.Filter{Caller: &bob, Op: OpStake})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(20), evs[0].Amount)
	assert.Equal(t, fed[2].Seq, evs[0].Seq)
}

func TestConcurrentOperations(t *testing.T) {
	n, clock := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := alice
			if i%2 == 1 {
				who = bob
			}
			clock.advance(1)
			switch i % 4 {
			case 0, 1:
				assert.NoError(t, n.Stake(ctx, who, mint, 1_000))
			case 2:
				assert.NoError(t, n.Faucet(ctx, who, mint, 10))
			default:
				// the record may not be opened yet
				if _, err := n.Claim(ctx, who, mint); err != nil {
					assert.True(t, reverts.IsRevertErr(err), "%v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	report, err := n.Verify(ctx, nil)
	require.NoError(t, err)
	assert.True(t, report.OK(), "%+v", report)
	assert.Equal(t, uint64(10_000), report.TotalStaked)
	assert.Zero(t, lockedParticipants(n))
}

func lockedParticipants(n *Node) int {
	n.participantsLock.Lock()
	defer n.participantsLock.Unlock()
	return len(n.participants)
}

func TestReadsDoNotRetainLocks(t *testing.T) {
	n, _ := newTestNode(t)
	initNode(t, n)

	for i := range 100 {
		addr := thor.BytesToAddress([]byte{0xee, byte(i)})
		view, err := n.GetStake(addr)
		require.NoError(t, err)
		assert.False(t, view.Record.IsOwned())

		bal, err := n.Balance(addr)
		require.NoError(t, err)
		assert.Zero(t, bal)

		_, err = n.Challenge(addr)
		require.NoError(t, err)
	}
	assert.Zero(t, lockedParticipants(n))

	release := n.holdParticipant(alice)
	assert.Equal(t, 1, lockedParticipants(n))
	release()
	assert.Zero(t, lockedParticipants(n))
}

func TestVerifyProgress(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)
	require.NoError(t, n.Stake(ctx, alice, mint, 1))
	require.NoError(t, n.Stake(ctx, bob, mint, 2))

	var calls [][2]int
	report, err := n.Verify(ctx, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
	assert.Equal(t, uint64(3), report.SumStaked)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = n.Verify(cancelled, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyDerivation(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()
	initNode(t, n)
	require.NoError(t, n.Stake(ctx, alice, mint, 10))

	report, err := n.Verify(ctx, nil)
	require.NoError(t, err)
	assert.NoError(t, report.Derivation)

	st := n.stater.NewState()
	svc := policy.New(record.NewContext(n.program.Address, st), n.program.Authorities.Policy)
	pol, err := svc.Get()
	require.NoError(t, err)
	pol.VaultBump++
	require.NoError(t, svc.Set(pol))
	require.NoError(t, st.Stage().Commit(n.stater))

	report, err = n.Verify(ctx, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, report.Derivation, custody.ErrInvalidDerivation)
	assert.False(t, report.OK())
	assert.ErrorIs(t, n.Unstake(ctx, alice, mint, 10), custody.ErrInvalidDerivation)
}

func TestHouseKeeping(t *testing.T) {
	var queries atomic.Int32
	ntpQuery = func(string) (*ntp.Response, error) {
		queries.Add(1)
		return &ntp.Response{ClockOffset: 10 * time.Second}, nil
	}
	defer func() { ntpQuery = ntp.Query }()

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := New(builtin.Staker, state.NewStater(db, 16), nil, Options{
		NTPCheck:           true,
		ClockSyncInterval:  10 * time.Millisecond,
		CacheStatsInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, n.Run(ctx))
	assert.Eventually(t, func() bool { return queries.Load() > 1 }, time.Second, 10*time.Millisecond)

	evs, err := n.Events(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, evs)
}
