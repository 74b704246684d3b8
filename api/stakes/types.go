// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/builtin/staker/pow"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

// Stake is a participant's stake record with the figures derived at server time.
type Stake struct {
	Address         thor.Address  `json:"address"`
	Owner           thor.Address  `json:"owner"`
	Initialized     bool          `json:"initialized"`
	AmountStaked    uint64        `json:"amountStaked"`
	PendingRewards  uint64        `json:"pendingRewards"`
	FaucetClaimed   uint64        `json:"faucetClaimed"`
	LastAccruedTs   int64         `json:"lastAccruedTs"`
	LastProofTs     int64         `json:"lastProofTs"`
	LastTaskID      uint64        `json:"lastTaskId"`
	LastProof       hexutil.Bytes `json:"lastProof"`
	Bump            uint8         `json:"bump"`
	Now             int64         `json:"now"`
	PreviewRewards  uint64        `json:"previewRewards"`
	FaucetRemaining uint64        `json:"faucetRemaining"`
	NextTaskID      uint64        `json:"nextTaskId"`
	ProofsExhausted bool          `json:"proofsExhausted"`
	Balance         uint64        `json:"balance"`
}

// ConvertStake builds the JSON form of a stake view.
func ConvertStake(owner thor.Address, v *node.StakeView) *Stake {
	rec := v.Record
	return &Stake{
		Address:         v.Address,
		Owner:           owner,
		Initialized:     rec.IsOwned(),
		AmountStaked:    rec.AmountStaked,
		PendingRewards:  rec.PendingRewards,
		FaucetClaimed:   rec.FaucetClaimed,
		LastAccruedTs:   rec.LastAccruedTs,
		LastProofTs:     rec.LastProofTs,
		LastTaskID:      rec.LastTaskID,
		LastProof:       rec.LastProof,
		Bump:            rec.Bump,
		Now:             v.Now,
		PreviewRewards:  v.PreviewRewards,
		FaucetRemaining: v.FaucetRemaining,
		NextTaskID:      v.NextTaskID,
		ProofsExhausted: v.ProofsExhausted,
		Balance:         v.Balance,
	}
}

// AmountRequest is the body of stake, unstake and faucet. Mint defaults to the policy mint.
type AmountRequest struct {
	Mint   *thor.Address        `json:"mint"`
	Amount *math.HexOrDecimal64 `json:"amount"`
}

// ClaimRequest is the body of claim.
type ClaimRequest struct {
	Mint *thor.Address `json:"mint"`
}

// ClaimResponse reports the claimed rewards.
type ClaimResponse struct {
	Claimed uint64 `json:"claimed"`
}

// ProofRequest is the body of a proof submission.
type ProofRequest struct {
	TaskID *math.HexOrDecimal64 `json:"taskId"`
	Nonce  *math.HexOrDecimal64 `json:"nonce"`
}

// Proof is an admitted proof.
type Proof struct {
	TaskID uint64       `json:"taskId"`
	Nonce  uint64       `json:"nonce"`
	Hash   thor.Bytes32 `json:"hash"`
}

func convertProof(p *pow.Record) *Proof {
	return &Proof{TaskID: p.TaskID, Nonce: p.Nonce, Hash: p.Hash}
}
