// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/thor"
)

type APRRequest struct {
	Caller thor.Address         `json:"caller"`
	APRBps *math.HexOrDecimal64 `json:"aprBps"`
}

type FaucetCapRequest struct {
	Caller    thor.Address         `json:"caller"`
	FaucetCap *math.HexOrDecimal64 `json:"faucetCap"`
}

type OracleAuthorityRequest struct {
	Caller    thor.Address `json:"caller"`
	Authority thor.Address `json:"authority"`
}

type PowConfigRequest struct {
	Caller     thor.Address         `json:"caller"`
	Difficulty uint8                `json:"difficulty"`
	Reward     *math.HexOrDecimal64 `json:"reward"`
	Nonce      *math.HexOrDecimal64 `json:"nonce"`
}
