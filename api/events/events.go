// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/node"
)

var logger = log.WithContext("pkg", "events")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	subBufferSize = 64
)

type Events struct {
	node     *node.Node
	limit    uint64
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the event journal handlers. Websocket upgrades are accepted from allowedOrigins
// or from any origin when it contains "*".
func New(n *node.Node, limit uint64, allowedOrigins []string) *Events {
	return &Events{
		node:  n,
		limit: limit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		done: make(chan struct{}),
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req.URL.Query(), e.limit)
	if err != nil {
		return err
	}
	evs, err := e.node.Events(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, convertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) handleSubscribe(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req.URL.Query(), e.limit)
	if err != nil {
		return err
	}
	conn, err := e.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	e.wg.Add(1)
	defer e.wg.Done()
	defer conn.Close()

	err = e.pipe(conn, &subFilter{caller: filter.Caller, op: filter.Op})
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Debug("subscription", "err", err)
	}
	return nil
}

func (e *Events) pipe(conn *websocket.Conn, filter *subFilter) error {
	ch := make(chan *eventdb.Event, subBufferSize)
	sub := e.node.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	closed := make(chan error, 1)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		// drain client messages, which also processes pongs and close frames
		for {
			if _, _, err := conn.NextReader(); err != nil {
				closed <- err
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-e.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		case err := <-closed:
			return err
		case err := <-sub.Err():
			return err
		case ev := <-ch:
			if !filter.match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(convertEvent(ev)); err != nil {
				return err
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription and waits for them to return.
func (e *Events) Close() {
	close(e.done)
	e.wg.Wait()
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/subscribe").
		Methods(http.MethodGet).
		Name("WS /events/subscribe").
		HandlerFunc(utils.WrapHandlerFunc(e.handleSubscribe))
}
