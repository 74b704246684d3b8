// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pow

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/thor"
)

// RecordSize is the encoded size of a proof record.
const RecordSize = 8 + 8 + 32

// Record is the audit trail of an accepted proof.
type Record struct {
	TaskID uint64
	Nonce  uint64
	Hash   thor.Bytes32
}

// Encode encodes the record as le64(task id) || le64(nonce) || hash.
func (r *Record) Encode() ([]byte, error) {
	buf := make([]byte, 0, RecordSize)
	buf = binary.LittleEndian.AppendUint64(buf, r.TaskID)
	buf = binary.LittleEndian.AppendUint64(buf, r.Nonce)
	buf = append(buf, r.Hash[:]...)
	if len(buf) > thor.MaxProofStorage {
		return nil, reverts.ErrProofTooLarge
	}
	return buf, nil
}

// Decode decodes the record.
func (r *Record) Decode(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("proof record: invalid length %d", len(data))
	}
	r.TaskID = binary.LittleEndian.Uint64(data)
	r.Nonce = binary.LittleEndian.Uint64(data[8:])
	copy(r.Hash[:], data[16:])
	return nil
}

// Hash computes keccak256(domain || caller || mint || le64(taskID) || le64(nonce)).
func Hash(caller, mint thor.Address, taskID, nonce uint64) thor.Bytes32 {
	var tail [16]byte
	binary.LittleEndian.PutUint64(tail[:8], taskID)
	binary.LittleEndian.PutUint64(tail[8:], nonce)
	return thor.Keccak256(thor.PowDomain, caller[:], mint[:], tail[:])
}

// MeetsDifficulty reports whether hash starts with at least difficulty zero bits.
func MeetsDifficulty(hash thor.Bytes32, difficulty uint8) bool {
	if difficulty == 0 {
		return true
	}
	remaining := int(difficulty)
	for _, b := range hash {
		z := bits.LeadingZeros8(b)
		if z >= remaining {
			return true
		}
		if z < 8 {
			return false
		}
		remaining -= 8
	}
	return false
}

// Verify recomputes the hash of a proof and checks it against difficulty.
func Verify(caller, mint thor.Address, taskID, nonce uint64, difficulty uint8) (*Record, bool) {
	h := Hash(caller, mint, taskID, nonce)
	return &Record{TaskID: taskID, Nonce: nonce, Hash: h}, MeetsDifficulty(h, difficulty)
}
