// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// Codec is implemented by pointers to persisted record types.
type Codec[V any] interface {
	*V
	Encode() ([]byte, error)
	Decode(data []byte) error
}

// Mapping is a keyed record storage abstraction: one record of type V per identity within a space.
// A missing record reads as the zero value of V.
type Mapping[V any, P Codec[V]] struct {
	context *Context
	space   state.Space
}

func NewMapping[V any, P Codec[V]](context *Context, space state.Space) *Mapping[V, P] {
	return &Mapping[V, P]{context: context, space: space}
}

// Get returns the record stored at addr, and whether it exists.
func (m *Mapping[V, P]) Get(addr thor.Address) (value *V, exists bool, err error) {
	value = new(V)
	key := state.Key{Space: m.space, Addr: addr}
	err = m.context.state.DecodeRecord(key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		exists = true
		return P(value).Decode(raw)
	})
	if err != nil {
		return nil, false, errors.WithMessagef(err, "decode %v", key)
	}
	return value, exists, nil
}

// Set stores the record at addr.
func (m *Mapping[V, P]) Set(addr thor.Address, value *V) error {
	key := state.Key{Space: m.space, Addr: addr}
	err := m.context.state.EncodeRecord(key, func() ([]byte, error) {
		return P(value).Encode()
	})
	return errors.WithMessagef(err, "encode %v", key)
}
