// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/skillstake/thor"
)

// Event is one applied operation.
type Event struct {
	Seq    uint64
	Time   int64
	Op     string
	Caller thor.Address
	Amount uint64
	TaskID uint64
	Data   []byte
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	Caller *thor.Address
	Op     string
	Order  Order // default asc
	Offset uint64
	Limit  uint64
}
