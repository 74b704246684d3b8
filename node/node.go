// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "node")

// Clock returns the current unix time in seconds. Readings need not be monotonic.
type Clock func() int64

// SystemClock reads the system time.
func SystemClock() int64 {
	return time.Now().Unix()
}

// Options for Node.
type Options struct {
	Clock              Clock
	NTPCheck           bool
	NTPServer          string
	ClockSyncInterval  time.Duration
	CacheStatsInterval time.Duration
}

// Node executes every external call as one atomic transaction over the committed records.
//
// Operations touching the policy record (initialize, admin surface, stake, unstake) hold the
// policy lock exclusively; claim, faucet and record_proof hold it shared. Every operation on a
// participant's stake record additionally holds that participant's lock.
type Node struct {
	program *builtin.Program
	stater  *state.Stater
	events  *eventdb.EventDB
	clock   Clock
	opts    Options

	policyLock sync.RWMutex

	participantsLock sync.Mutex
	participants     map[thor.Address]*participantLock

	eventFeed  event.Feed
	scope      event.SubscriptionScope
	lastCommit atomic.Int64
}

// New is a factory for Node.
func New(program *builtin.Program, stater *state.Stater, events *eventdb.EventDB, opts Options) *Node {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.NTPServer == "" {
		opts.NTPServer = "pool.ntp.org"
	}
	if opts.ClockSyncInterval <= 0 {
		opts.ClockSyncInterval = 10 * time.Minute
	}
	if opts.CacheStatsInterval <= 0 {
		opts.CacheStatsInterval = 20 * time.Second
	}
	return &Node{
		program:      program,
		stater:       stater,
		events:       events,
		clock:        opts.Clock,
		opts:         opts,
		participants: make(map[thor.Address]*participantLock),
	}
}

// Program returns the program the node executes.
func (n *Node) Program() *builtin.Program {
	return n.program
}

// Now reads the node clock.
func (n *Node) Now() int64 {
	return n.clock()
}

// LastCommit returns the clock reading of the last committed operation, zero if none.
func (n *Node) LastCommit() int64 {
	return n.lastCommit.Load()
}

// SubscribeEvents delivers every journaled event to ch. Slow subscribers block the sender.
func (n *Node) SubscribeEvents(ch chan *eventdb.Event) event.Subscription {
	return n.scope.Track(n.eventFeed.Subscribe(ch))
}

// Run runs the housekeeping loop until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	n.houseKeeping(ctx)
	return nil
}

// Close unsubscribes every event subscriber.
func (n *Node) Close() {
	n.scope.Close()
}

// participantLock is held while an operation reads or writes one participant's records.
// It stays in the map only while some goroutine holds or waits for it.
type participantLock struct {
	sync.Mutex
	refs int
}

// holdParticipant locks addr and returns the unlock func.
func (n *Node) holdParticipant(addr thor.Address) func() {
	n.participantsLock.Lock()
	l, ok := n.participants[addr]
	if !ok {
		l = new(participantLock)
		n.participants[addr] = l
	}
	l.refs++
	n.participantsLock.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		n.participantsLock.Lock()
		defer n.participantsLock.Unlock()
		if l.refs--; l.refs == 0 {
			delete(n.participants, addr)
		}
	}
}
