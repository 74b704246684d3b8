// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package policy

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

// Policy is the JSON form of the policy record.
type Policy struct {
	Admin           thor.Address `json:"admin"`
	OracleAuthority thor.Address `json:"oracleAuthority"`
	Mint            thor.Address `json:"mint"`
	Vault           thor.Address `json:"vault"`
	APRBps          uint64       `json:"aprBps"`
	TotalStaked     uint64       `json:"totalStaked"`
	FaucetCap       uint64       `json:"faucetCap"`
	PowReward       uint64       `json:"powReward"`
	PowDifficulty   uint8        `json:"powDifficulty"`
	OracleNonce     uint64       `json:"oracleNonce"`
	Bump            uint8        `json:"bump"`
	VaultBump       uint8        `json:"vaultBump"`
	MintAuthBump    uint8        `json:"mintAuthBump"`
}

func ConvertPolicy(r *policy.Record) *Policy {
	return &Policy{
		Admin:           r.Admin,
		OracleAuthority: r.OracleAuthority,
		Mint:            r.Mint,
		Vault:           r.Vault,
		APRBps:          r.APRBps,
		TotalStaked:     r.TotalStaked,
		FaucetCap:       r.FaucetCap,
		PowReward:       r.PowReward,
		PowDifficulty:   r.PowDifficulty,
		OracleNonce:     r.OracleNonce,
		Bump:            r.Bump,
		VaultBump:       r.VaultBump,
		MintAuthBump:    r.MintAuthBump,
	}
}

type Policies struct {
	node *node.Node
}

func New(n *node.Node) *Policies {
	return &Policies{n}
}

func (p *Policies) handleGetPolicy(w http.ResponseWriter, _ *http.Request) error {
	rec, err := p.node.Policy()
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, ConvertPolicy(rec))
}

func (p *Policies) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /policy").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPolicy))
}
