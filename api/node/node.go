// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/node"
)

// Health is the liveness report.
type Health struct {
	Healthy     bool   `json:"healthy"`
	Now         int64  `json:"now"`
	LastCommit  int64  `json:"lastCommit"`
	Initialized bool   `json:"initialized"`
	Program     string `json:"program"`
}

type Node struct {
	node *node.Node
}

func New(n *node.Node) *Node {
	return &Node{n}
}

func (n *Node) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	_, err := n.node.Policy()
	return utils.WriteJSON(w, &Health{
		Healthy:     err == nil || errors.Is(err, reverts.ErrNotInitialized),
		Now:         n.node.Now(),
		LastCommit:  n.node.LastCommit(),
		Initialized: err == nil,
		Program:     n.node.Program().Name(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /health").
		HandlerFunc(utils.WrapHandlerFunc(n.handleHealth))
}
