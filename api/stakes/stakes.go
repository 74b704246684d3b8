// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

// Stakes serves stake records and the ledger operations of a participant.
// The caller is the path address, as asserted by the authenticating gateway in front.
type Stakes struct {
	node *node.Node
}

func New(n *node.Node) *Stakes {
	return &Stakes{n}
}

type amountOp func(ctx context.Context, caller, mint thor.Address, amount uint64) error

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	view, err := s.node.GetStake(owner)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, ConvertStake(owner, view))
}

func (s *Stakes) mint(mint *thor.Address) (thor.Address, error) {
	if mint != nil {
		return *mint, nil
	}
	pol, err := s.node.Policy()
	if err != nil {
		return thor.Address{}, utils.RevertError(err)
	}
	return pol.Mint, nil
}

func (s *Stakes) amountHandler(op amountOp) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		caller, err := utils.ParseAddress(mux.Vars(req)["address"])
		if err != nil {
			return err
		}
		var body AmountRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Amount == nil {
			return utils.BadRequest(errors.New("body: amount required"))
		}
		mint, err := s.mint(body.Mint)
		if err != nil {
			return err
		}
		if err := op(req.Context(), caller, mint, uint64(*body.Amount)); err != nil {
			return utils.RevertError(err)
		}
		return s.handleGetStake(w, req)
	}
}

func (s *Stakes) handleClaim(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var body ClaimRequest
	if req.ContentLength != 0 {
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
	}
	mint, err := s.mint(body.Mint)
	if err != nil {
		return err
	}
	claimed, err := s.node.Claim(req.Context(), caller, mint)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, &ClaimResponse{claimed})
}

func (s *Stakes) handleRecordProof(w http.ResponseWriter, req *http.Request) error {
	caller, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var body ProofRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.TaskID == nil || body.Nonce == nil {
		return utils.BadRequest(errors.New("body: taskId and nonce required"))
	}
	proof, err := s.node.RecordProof(req.Context(), caller, uint64(*body.TaskID), uint64(*body.Nonce))
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, convertProof(proof))
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakes/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /stakes/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.amountHandler(s.node.Stake)))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("POST /stakes/{address}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.amountHandler(s.node.Unstake)))
	sub.Path("/{address}/faucet").
		Methods(http.MethodPost).
		Name("POST /stakes/{address}/faucet").
		HandlerFunc(utils.WrapHandlerFunc(s.amountHandler(s.node.Faucet)))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /stakes/{address}/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/{address}/proofs").
		Methods(http.MethodPost).
		Name("POST /stakes/{address}/proofs").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRecordProof))
}
