// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/skillstake/api/admin"
	"github.com/vechain/skillstake/api/events"
	apinode "github.com/vechain/skillstake/api/node"
	"github.com/vechain/skillstake/api/oracle"
	"github.com/vechain/skillstake/api/policy"
	"github.com/vechain/skillstake/api/stakes"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EventsLimit          uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}
	if opts.EnableReqLogger == nil {
		opts.EnableReqLogger = new(atomic.Bool)
	}

	router := mux.NewRouter()

	apinode.New(n).
		Mount(router, "/health")
	policy.New(n).
		Mount(router, "/policy")
	admin.New(n).
		Mount(router, "/admin")
	stakes.New(n).
		Mount(router, "/stakes")
	oracle.New(n).
		Mount(router, "/oracle")
	evs := events.New(n, opts.EventsLimit, origins)
	evs.Mount(router, "/events")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)(handler)

	return handler.ServeHTTP, evs.Close // subscriptions handle hijacked conns, which need to be closed
}
