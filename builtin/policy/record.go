// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package policy

import (
	"encoding/binary"
	"fmt"

	"github.com/vechain/skillstake/thor"
)

// RecordSize is the persisted size of a policy record.
const RecordSize = 4*thor.AddressLength + 5*8 + 4 + 4

// Record is the single global configuration and aggregate accounting record.
type Record struct {
	Admin           thor.Address
	OracleAuthority thor.Address
	Mint            thor.Address // token accepted for staking and minted as reward
	Vault           thor.Address // custody account holding staked principal

	APRBps      uint64
	TotalStaked uint64
	FaucetCap   uint64
	PowReward   uint64
	OracleNonce uint64

	PowDifficulty uint8
	Bump          uint8 // derivation proof of the policy address
	VaultBump     uint8
	MintAuthBump  uint8
}

// IsAdmin returns whether addr is the admin.
func (r *Record) IsAdmin(addr thor.Address) bool {
	return !addr.IsZero() && r.Admin == addr
}

// IsOracle returns whether addr may update the proof-of-work config.
func (r *Record) IsOracle(addr thor.Address) bool {
	return !addr.IsZero() && (r.OracleAuthority == addr || r.Admin == addr)
}

// Encode encodes the record into its fixed little-endian layout.
func (r *Record) Encode() ([]byte, error) {
	buf := make([]byte, 0, RecordSize)
	buf = append(buf, r.Admin[:]...)
	buf = append(buf, r.OracleAuthority[:]...)
	buf = append(buf, r.Mint[:]...)
	buf = append(buf, r.Vault[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, r.APRBps)
	buf = binary.LittleEndian.AppendUint64(buf, r.TotalStaked)
	buf = binary.LittleEndian.AppendUint64(buf, r.FaucetCap)
	buf = binary.LittleEndian.AppendUint64(buf, r.PowReward)
	buf = binary.LittleEndian.AppendUint64(buf, r.OracleNonce)
	buf = append(buf, r.PowDifficulty, r.Bump, r.VaultBump, r.MintAuthBump)
	buf = append(buf, 0, 0, 0, 0) // padding
	return buf, nil
}

// Decode decodes the record from its fixed layout.
func (r *Record) Decode(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("policy record: invalid length %d", len(data))
	}
	off := 0
	for _, addr := range []*thor.Address{&r.Admin, &r.OracleAuthority, &r.Mint, &r.Vault} {
		copy(addr[:], data[off:])
		off += thor.AddressLength
	}
	for _, v := range []*uint64{&r.APRBps, &r.TotalStaked, &r.FaucetCap, &r.PowReward, &r.OracleNonce} {
		*v = binary.LittleEndian.Uint64(data[off:])
		off += 8
	}
	r.PowDifficulty = data[off]
	r.Bump = data[off+1]
	r.VaultBump = data[off+2]
	r.MintAuthBump = data[off+3]
	return nil
}
