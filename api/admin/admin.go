// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/policy"
	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/node"
)

// Admin serves the policy administration surface. Authorization is left to the ledger:
// the caller in the body must be the admin, or the oracle authority for pow config.
type Admin struct {
	node *node.Node
}

func New(n *node.Node) *Admin {
	return &Admin{n}
}

func (a *Admin) respond(w http.ResponseWriter, err error) error {
	if err != nil {
		return utils.RevertError(err)
	}
	rec, err := a.node.Policy()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, policy.ConvertPolicy(rec))
}

func (a *Admin) handleSetAPR(w http.ResponseWriter, req *http.Request) error {
	var body APRRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.APRBps == nil {
		return utils.BadRequest(errors.New("body: aprBps required"))
	}
	return a.respond(w, a.node.SetAPR(req.Context(), body.Caller, uint64(*body.APRBps)))
}

func (a *Admin) handleUpdateFaucetCap(w http.ResponseWriter, req *http.Request) error {
	var body FaucetCapRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.FaucetCap == nil {
		return utils.BadRequest(errors.New("body: faucetCap required"))
	}
	return a.respond(w, a.node.UpdateFaucetCap(req.Context(), body.Caller, uint64(*body.FaucetCap)))
}

func (a *Admin) handleSetOracleAuthority(w http.ResponseWriter, req *http.Request) error {
	var body OracleAuthorityRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return a.respond(w, a.node.SetOracleAuthority(req.Context(), body.Caller, body.Authority))
}

func (a *Admin) handleSetPowConfig(w http.ResponseWriter, req *http.Request) error {
	var body PowConfigRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Reward == nil || body.Nonce == nil {
		return utils.BadRequest(errors.New("body: reward and nonce required"))
	}
	return a.respond(w, a.node.SetPowConfig(req.Context(), body.Caller, body.Difficulty, uint64(*body.Reward), uint64(*body.Nonce)))
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/apr").
		Methods(http.MethodPost).
		Name("POST /admin/apr").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAPR))
	sub.Path("/faucet-cap").
		Methods(http.MethodPost).
		Name("POST /admin/faucet-cap").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUpdateFaucetCap))
	sub.Path("/oracle-authority").
		Methods(http.MethodPost).
		Name("POST /admin/oracle-authority").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetOracleAuthority))
	sub.Path("/pow-config").
		Methods(http.MethodPost).
		Name("POST /admin/pow-config").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetPowConfig))
}
