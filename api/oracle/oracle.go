// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

// Challenge is what a participant mines against.
type Challenge struct {
	User        thor.Address `json:"user"`
	Mint        thor.Address `json:"mint"`
	TaskID      uint64       `json:"taskId"`
	Fresh       bool         `json:"fresh"` // whether taskId is above the last recorded one
	Exhausted   bool         `json:"exhausted"`
	Difficulty  uint8        `json:"difficulty"`
	Reward      uint64       `json:"reward"`
	OracleNonce uint64       `json:"oracleNonce"`
	IssuedAt    int64        `json:"issuedAt"`
}

type Oracle struct {
	node *node.Node
}

func New(n *node.Node) *Oracle {
	return &Oracle{n}
}

func (o *Oracle) handleGetChallenge(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	if query.Get("user") == "" {
		return utils.BadRequest(errors.New("user: required"))
	}
	user, err := utils.ParseAddress(query.Get("user"))
	if err != nil {
		return err
	}
	ch, err := o.node.Challenge(user)
	if err != nil {
		return utils.RevertError(err)
	}
	taskID, err := utils.ParseUint64("taskId", query.Get("taskId"), ch.NextTaskID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Challenge{
		User:        user,
		Mint:        ch.Mint,
		TaskID:      taskID,
		Fresh:       !ch.ProofsExhausted && taskID >= ch.NextTaskID,
		Exhausted:   ch.ProofsExhausted,
		Difficulty:  ch.Difficulty,
		Reward:      ch.Reward,
		OracleNonce: ch.OracleNonce,
		IssuedAt:    o.node.Now(),
	})
}

func (o *Oracle) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/challenge").
		Methods(http.MethodGet).
		Name("GET /oracle/challenge").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetChallenge))
}
