// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/url"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

// Event is the JSON form of a journaled operation.
type Event struct {
	Seq    uint64        `json:"seq"`
	Time   int64         `json:"time"`
	Op     string        `json:"op"`
	Caller thor.Address  `json:"caller"`
	Amount uint64        `json:"amount"`
	TaskID uint64        `json:"taskId"`
	Data   hexutil.Bytes `json:"data"`
}

func convertEvent(ev *eventdb.Event) *Event {
	return &Event{
		Seq:    ev.Seq,
		Time:   ev.Time,
		Op:     ev.Op,
		Caller: ev.Caller,
		Amount: ev.Amount,
		TaskID: ev.TaskID,
		Data:   ev.Data,
	}
}

// parseFilter reads caller, op, order, offset and limit. limit is capped at maxLimit.
func parseFilter(query url.Values, maxLimit uint64) (*eventdb.Filter, error) {
	filter := &eventdb.Filter{Op: query.Get("op")}
	if s := query.Get("caller"); s != "" {
		caller, err := utils.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		filter.Caller = &caller
	}
	switch order := eventdb.Order(query.Get("order")); order {
	case "", eventdb.ASC, eventdb.DESC:
		filter.Order = order
	default:
		return nil, utils.BadRequest(errors.New("order: must be asc or desc"))
	}

	var err error
	if filter.Offset, err = utils.ParseUint64("offset", query.Get("offset"), 0); err != nil {
		return nil, err
	}
	if filter.Limit, err = utils.ParseUint64("limit", query.Get("limit"), maxLimit); err != nil {
		return nil, err
	}
	if filter.Limit > maxLimit {
		return nil, utils.Forbidden(errors.Errorf("limit: exceeds maximum %d", maxLimit))
	}
	return filter, nil
}

func (f *subFilter) match(ev *eventdb.Event) bool {
	if f.caller != nil && *f.caller != ev.Caller {
		return false
	}
	return f.op == "" || f.op == ev.Op
}

type subFilter struct {
	caller *thor.Address
	op     string
}
