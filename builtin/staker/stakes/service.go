// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/record"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// Seed prefixes the seeds of stake record addresses.
var Seed = []byte("stake")

type derived struct {
	addr thor.Address
	bump uint8
}

// Service manages stake records, each stored at an address derived from its owner.
type Service struct {
	program thor.Address
	records *record.Mapping[Record, *Record]
	addrs   map[thor.Address]derived
}

func New(rctx *record.Context) *Service {
	return &Service{
		program: rctx.Program(),
		records: record.NewMapping[Record](rctx, state.StakeSpace),
		addrs:   make(map[thor.Address]derived),
	}
}

// Address returns the address of owner's stake record and its bump.
func (s *Service) Address(owner thor.Address) (thor.Address, uint8, error) {
	if d, ok := s.addrs[owner]; ok {
		return d.addr, d.bump, nil
	}
	addr, bump, err := Address(s.program, owner)
	if err != nil {
		return thor.Address{}, 0, err
	}
	s.addrs[owner] = derived{addr, bump}
	return addr, bump, nil
}

// Get returns owner's stake record. A missing record is returned Uninitialized.
func (s *Service) Get(owner thor.Address) (*Record, error) {
	addr, _, err := s.Address(owner)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.records.Get(addr)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Set persists an owned stake record.
func (s *Service) Set(rec *Record) error {
	if !rec.IsOwned() {
		return errors.New("stake record: cannot persist uninitialized record")
	}
	addr, _, err := s.Address(rec.Owner)
	if err != nil {
		return err
	}
	return s.records.Set(addr, rec)
}

// Address derives the address of owner's stake record under program.
func Address(program, owner thor.Address) (thor.Address, uint8, error) {
	addr, bump, err := thor.FindProgramAddress([][]byte{Seed, owner[:]}, program)
	if err != nil {
		return thor.Address{}, 0, errors.WithMessage(err, "derive stake address")
	}
	return addr, bump, nil
}

// Decode decodes a raw stake record.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := rec.Decode(data); err != nil {
		return nil, err
	}
	return &rec, nil
}
