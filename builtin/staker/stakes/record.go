// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/thor"
)

// PrefixSize is the size of the fixed part of an encoded stake record:
// owner, six 8-byte counters, bump and 7 bytes padding.
const PrefixSize = thor.AddressLength + 6*8 + 1 + 7

// Record is the per participant accounting record.
//
// A record with zero Owner is Uninitialized; it becomes Owned through Open and
// its owner never changes afterwards.
type Record struct {
	Owner          thor.Address
	AmountStaked   uint64
	PendingRewards uint64
	FaucetClaimed  uint64
	LastAccruedTs  int64
	LastProofTs    int64
	LastTaskID     uint64
	Bump           uint8 // derivation proof of the record address
	LastProof      []byte
}

// IsOwned returns whether the record has left the Uninitialized state.
func (r *Record) IsOwned() bool {
	return !r.Owner.IsZero()
}

// Open moves an Uninitialized record to Owned(owner).
func (r *Record) Open(owner thor.Address, bump uint8) error {
	if r.IsOwned() || owner.IsZero() {
		return reverts.ErrUnauthorized
	}
	r.Owner = owner
	r.Bump = bump
	return nil
}

// Authorize checks that the record is owned by caller.
func (r *Record) Authorize(caller thor.Address) error {
	if !r.IsOwned() || r.Owner != caller {
		return reverts.ErrUnauthorized
	}
	return nil
}

// Encode encodes the record: the fixed prefix, then the last proof as a
// u32 length followed by its bytes.
func (r *Record) Encode() ([]byte, error) {
	if len(r.LastProof) > thor.MaxProofStorage {
		return nil, reverts.ErrProofTooLarge
	}
	buf := make([]byte, 0, PrefixSize+4+len(r.LastProof))
	buf = append(buf, r.Owner[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, r.AmountStaked)
	buf = binary.LittleEndian.AppendUint64(buf, r.PendingRewards)
	buf = binary.LittleEndian.AppendUint64(buf, r.FaucetClaimed)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.LastAccruedTs))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r.LastProofTs))
	buf = binary.LittleEndian.AppendUint64(buf, r.LastTaskID)
	buf = append(buf, r.Bump)
	buf = append(buf, make([]byte, 7)...) // padding
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.LastProof)))
	buf = append(buf, r.LastProof...)
	return buf, nil
}

// Decode decodes the record.
func (r *Record) Decode(data []byte) error {
	if len(data) < PrefixSize+4 {
		return fmt.Errorf("stake record: invalid length %d", len(data))
	}
	copy(r.Owner[:], data)
	off := thor.AddressLength
	next := func() uint64 {
		v := binary.LittleEndian.Uint64(data[off:])
		off += 8
		return v
	}
	r.AmountStaked = next()
	r.PendingRewards = next()
	r.FaucetClaimed = next()
	r.LastAccruedTs = int64(next())
	r.LastProofTs = int64(next())
	r.LastTaskID = next()
	r.Bump = data[off]

	n := binary.LittleEndian.Uint32(data[PrefixSize:])
	if n > uint32(thor.MaxProofStorage) {
		return fmt.Errorf("stake record: proof length %d exceeds %d", n, thor.MaxProofStorage)
	}
	if len(data) != PrefixSize+4+int(n) {
		return fmt.Errorf("stake record: invalid length %d for proof of %d bytes", len(data), n)
	}
	r.LastProof = nil
	if n > 0 {
		r.LastProof = bytes.Clone(data[PrefixSize+4:])
	}
	return nil
}
