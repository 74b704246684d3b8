// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the staking ledger.
const (
	SecondsPerYear int64  = 31_536_000 // 365 days, leap years are not modeled
	BPSDenominator uint64 = 10_000

	MaxAPRBps        uint64 = BPSDenominator * 5 // 500%
	MaxPowDifficulty uint8  = 248                // leading zero bits of a 256-bit hash
	MaxProofStorage  int    = 64                 // bytes of the serialized last proof
)

// PowDomain domain tag prefixed to every proof-of-work preimage.
var PowDomain = []byte("skillstake_pow")
