// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/vechain/skillstake/builtin/custody"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

// Operation names, as journaled.
const (
	OpInitialize         = "initialize"
	OpSetAPR             = "set_apr"
	OpUpdateFaucetCap    = "update_faucet_cap"
	OpSetOracleAuthority = "set_oracle_authority"
	OpSetPowConfig       = "set_pow_config"
	OpStake              = "stake"
	OpUnstake            = "unstake"
	OpClaim              = "claim"
	OpFaucet             = "faucet"
	OpRecordProof        = "record_proof"
)

type lockMode int

const (
	// policy exclusively
	lockPolicy lockMode = iota
	// policy exclusively, plus the caller's record
	lockPolicyAndParticipant
	// policy shared, plus the caller's record
	lockParticipant
)

// txFunc runs one operation against a fresh staker and the ledger sharing its state.
// It fills ev with the operation details.
type txFunc func(s *staker.Staker, l *custody.Ledger, now int64, ev *eventdb.Event) error

// execute runs fn as one transaction: on success the staged records are committed in one
// batch and the event is journaled, on failure nothing is written.
func (n *Node) execute(ctx context.Context, op string, caller thor.Address, mode lockMode, fn txFunc) (*eventdb.Event, error) {
	start := time.Now()
	ev, err := n.commit(op, caller, mode, fn)

	result := "ok"
	if err != nil {
		if name := reverts.NameOf(err); name != "" {
			result = name
		} else {
			result = "error"
		}
	}
	labels := map[string]string{"op": op, "result": result}
	metricOperationCount().AddWithLabel(1, labels)
	metricOperationDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})

	if err != nil {
		if reverts.IsRevertErr(err) {
			logger.Debug("operation reverted", "op", op, "caller", caller, "reason", result)
		} else {
			logger.Warn("operation failed", "op", op, "caller", caller, "err", err)
		}
		return nil, err
	}

	if n.events != nil {
		if err := n.events.Insert(ctx, ev); err != nil {
			logger.Warn("failed to journal event", "op", op, "err", err)
		}
	}
	n.eventFeed.Send(ev)
	return ev, nil
}

func (n *Node) commit(op string, caller thor.Address, mode lockMode, fn txFunc) (*eventdb.Event, error) {
	switch mode {
	case lockPolicy, lockPolicyAndParticipant:
		n.policyLock.Lock()
		defer n.policyLock.Unlock()
	default:
		n.policyLock.RLock()
		defer n.policyLock.RUnlock()
	}
	if mode != lockPolicy {
		defer n.holdParticipant(caller)()
	}

	now := n.clock()
	st := n.stater.NewState()
	s, l := n.program.WithState(st)

	ev := &eventdb.Event{Time: now, Op: op, Caller: caller}
	checkpoint := st.NewCheckpoint()
	if err := fn(s, l, now, ev); err != nil {
		st.RevertTo(checkpoint)
		return nil, err
	}

	stage := st.Stage()
	if err := stage.Commit(n.stater); err != nil {
		return nil, err
	}
	metricCommittedRecords().Add(int64(stage.Len()))
	n.lastCommit.Store(now)

	if mode != lockParticipant {
		// total staked only changes under the exclusive lock
		if pol, err := s.Policy(); err == nil {
			metricTotalStaked().Set(int64(pol.TotalStaked)) // #nosec G115
		}
	}
	return ev, nil
}
