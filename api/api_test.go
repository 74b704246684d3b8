// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/api/events"
	apinode "github.com/vechain/skillstake/api/node"
	"github.com/vechain/skillstake/api/oracle"
	"github.com/vechain/skillstake/api/policy"
	"github.com/vechain/skillstake/api/stakes"
	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/genesis"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

type testServer struct {
	*httptest.Server
	node *node.Node
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	evdb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { evdb.Close() })

	n := node.New(builtin.Staker, state.NewStater(db, 0), evdb, node.Options{})
	t.Cleanup(n.Close)
	_, err = genesis.NewDevnet().Apply(context.Background(), n)
	require.NoError(t, err)

	enabled := new(atomic.Bool)
	enabled.Store(true)
	handler, closeFn := New(n, Options{
		AllowedOrigins:  "*",
		EventsLimit:     10,
		EnableReqLogger: enabled,
		EnableMetrics:   true,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFn()
		srv.Close()
	})
	return &testServer{srv, n}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.NotEmpty(t, res.Header.Get(RequestIDHeader))
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealthAndPolicy(t *testing.T) {
	ts := newTestServer(t)
	devs := genesis.DevAccounts()

	var health apinode.Health
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil, &health))
	assert.True(t, health.Healthy)
	assert.True(t, health.Initialized)
	assert.Equal(t, "skillstake", health.Program)
	assert.NotZero(t, health.LastCommit)

	var pol policy.Policy
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/policy", nil, &pol))
	assert.Equal(t, devs[0], pol.Admin)
	assert.Equal(t, devs[1], pol.OracleAuthority)
	assert.Equal(t, uint64(1000), pol.APRBps)
}

func TestStakeFlow(t *testing.T) {
	ts := newTestServer(t)
	user := genesis.DevAccounts()[2]
	path := "/stakes/" + user.String()

	var st stakes.Stake
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, path, nil, &st))
	assert.False(t, st.Initialized)
	assert.Equal(t, uint64(1_000_000_000_000), st.Balance)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/stake", utils.M{"amount": "0x3e8"}, &st))
	assert.True(t, st.Initialized)
	assert.Equal(t, uint64(1000), st.AmountStaked)
	assert.Equal(t, user, st.Owner)

	var errResp utils.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path+"/unstake", utils.M{"amount": 1001}, &errResp))
	assert.Equal(t, "InsufficientStake", errResp.Revert)
	assert.Equal(t, "business", errResp.Kind)

	other := thor.BytesToAddress([]byte("other"))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path+"/stake", utils.M{"amount": 1, "mint": other}, &errResp))
	assert.Equal(t, "MintMismatch", errResp.Revert)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path+"/stake", utils.M{}, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/stakes/0x01/stake", utils.M{"amount": 1}, nil))

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/unstake", utils.M{"amount": 400}, &st))
	assert.Equal(t, uint64(600), st.AmountStaked)
}

func TestFaucetClaimAndProofs(t *testing.T) {
	ts := newTestServer(t)
	devs := genesis.DevAccounts()
	user := thor.BytesToAddress([]byte("newcomer"))
	path := "/stakes/" + user.String()

	var errResp utils.ErrorResponse
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, path+"/claim", nil, &errResp))
	assert.Equal(t, "Unauthorized", errResp.Revert)

	var st stakes.Stake
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/faucet", utils.M{"amount": 5}, &st))
	assert.Equal(t, uint64(5), st.Balance)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path+"/claim", utils.M{}, &errResp))
	assert.Equal(t, "NothingToClaim", errResp.Revert)

	// the oracle lowers the difficulty so any nonce passes
	var pol policy.Policy
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/admin/pow-config",
		utils.M{"caller": devs[1], "difficulty": 0, "reward": 70, "nonce": 1}, &pol))
	assert.Equal(t, uint8(0), pol.PowDifficulty)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/admin/pow-config",
		utils.M{"caller": devs[1], "difficulty": 0, "reward": 70, "nonce": 1}, &errResp))
	assert.Equal(t, "StaleOracleUpdate", errResp.Revert)

	var ch oracle.Challenge
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/oracle/challenge?user="+user.String(), nil, &ch))
	assert.Equal(t, uint64(1), ch.TaskID)
	assert.True(t, ch.Fresh)
	assert.Equal(t, uint64(70), ch.Reward)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/oracle/challenge", nil, nil))

	var proof stakes.Proof
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/proofs", utils.M{"taskId": ch.TaskID, "nonce": 9}, &proof))
	assert.Equal(t, uint64(9), proof.Nonce)
	assert.False(t, proof.Hash.IsZero())

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/oracle/challenge?user="+user.String()+"&taskId=1", nil, &ch))
	assert.False(t, ch.Fresh)

	var claimed stakes.ClaimResponse
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/claim", nil, &claimed))
	assert.Equal(t, uint64(70), claimed.Claimed)
}

func TestAdmin(t *testing.T) {
	ts := newTestServer(t)
	devs := genesis.DevAccounts()

	var pol policy.Policy
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/admin/apr", utils.M{"caller": devs[0], "aprBps": 250}, &pol))
	assert.Equal(t, uint64(250), pol.APRBps)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/admin/faucet-cap", utils.M{"caller": devs[0], "faucetCap": 9}, &pol))
	assert.Equal(t, uint64(9), pol.FaucetCap)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/admin/oracle-authority", utils.M{"caller": devs[0], "authority": devs[3]}, &pol))
	assert.Equal(t, devs[3], pol.OracleAuthority)

	var errResp utils.ErrorResponse
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/admin/apr", utils.M{"caller": devs[1], "aprBps": 1}, &errResp))
	assert.Equal(t, "authorization", errResp.Kind)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/admin/apr", utils.M{"caller": devs[0], "aprBps": thor.MaxAPRBps + 1}, &errResp))
	assert.Equal(t, "AprTooHigh", errResp.Revert)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/admin/apr", utils.M{"caller": devs[0], "unknown": 1}, nil))
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)
	user := genesis.DevAccounts()[2]
	path := "/stakes/" + user.String()

	for range 3 {
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/stake", utils.M{"amount": 10}, nil))
	}

	var evs []*events.Event
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/events?caller="+user.String()+"&order=desc&limit=2", nil, &evs))
	require.Len(t, evs, 2)
	assert.Equal(t, node.OpStake, evs[0].Op)
	assert.Greater(t, evs[0].Seq, evs[1].Seq)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/events?op=initialize", nil, &evs))
	require.Len(t, evs, 1)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/events?limit=11", nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/events?order=up", nil, nil))
}

func TestEventSubscription(t *testing.T) {
	ts := newTestServer(t)
	user := genesis.DevAccounts()[2]

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events/subscribe?caller=" + user.String()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the handler time to subscribe before the operations run
	time.Sleep(100 * time.Millisecond)
	mint := mustMint(t, ts)
	// filtered out
	require.NoError(t, ts.node.Faucet(context.Background(), genesis.DevAccounts()[3], mint, 1))
	require.NoError(t, ts.node.Stake(context.Background(), user, mint, 42))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, node.OpStake, ev.Op)
	assert.Equal(t, user, ev.Caller)
	assert.Equal(t, uint64(42), ev.Amount)
}

func mustMint(t *testing.T, ts *testServer) thor.Address {
	pol, err := ts.node.Policy()
	require.NoError(t, err)
	return pol.Mint
}
