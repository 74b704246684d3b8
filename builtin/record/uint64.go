// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"encoding/binary"
	"fmt"
)

// Uint64 is a single little-endian u64 value, the smallest record type.
type Uint64 uint64

func (u *Uint64) Encode() ([]byte, error) {
	return binary.LittleEndian.AppendUint64(nil, uint64(*u)), nil
}

func (u *Uint64) Decode(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("uint64 record: invalid length %d", len(data))
	}
	*u = Uint64(binary.LittleEndian.Uint64(data))
	return nil
}
