// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/genesis"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/metrics"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewHandler(os.Stderr, lvl, ctx.Bool(jsonLogsFlag.Name), useColor)
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	network := ctx.String(genesisFlag.Name)
	if network == "" || network == "devnet" {
		return genesis.NewDevnet()
	}
	cfg, err := genesis.LoadConfig(network)
	if err != nil {
		fatal(err)
	}
	gene, err := genesis.New(cfg)
	if err != nil {
		fatal(err)
	}
	return gene
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, instanceDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		fatal(fmt.Sprintf("open ledger database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2) // #nosec G115
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openEventDB(instanceDir string) *eventdb.EventDB {
	dir := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", dir, err))
	}
	return db
}

// stateCacheEntries sizes the record cache from the cache budget, records being a few hundred bytes.
func stateCacheEntries(cacheMB int) int {
	return cacheMB / 2 * 1024
}

type ledger struct {
	gene        *genesis.Genesis
	instanceDir string
	mainDB      *lvldb.LevelDB
	eventDB     *eventdb.EventDB
	node        *node.Node
}

func (l *ledger) Close() {
	l.node.Close()
	logger.Debug("closing event database...")
	if err := l.eventDB.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Debug("closing main database...")
	if err := l.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func openLedger(ctx *cli.Context, opts node.Options) *ledger {
	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)
	mainDB := openMainDB(ctx, instanceDir)
	eventDB := openEventDB(instanceDir)

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	stater := state.NewStater(mainDB, stateCacheEntries(cacheMB))
	return &ledger{
		gene:        gene,
		instanceDir: instanceDir,
		mainDB:      mainDB,
		eventDB:     eventDB,
		node:        node.New(builtin.Staker, stater, eventDB, opts),
	}
}

// parseAccount accepts an address or the index of a devnet account.
func parseAccount(s string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, errors.New("account required")
	}
	if i, err := strconv.Atoi(s); err == nil {
		accs := genesis.DevAccounts()
		if i < 0 || i >= len(accs) {
			return thor.Address{}, errors.Errorf("devnet account index out of range [0, %d)", len(accs))
		}
		return accs[i], nil
	}
	return thor.ParseAddress(s)
}

func requireAccount(ctx *cli.Context, flag cli.StringFlag) thor.Address {
	addr, err := parseAccount(ctx.String(flag.Name))
	if err != nil {
		fatal(fmt.Sprintf("--%s: %v", flag.Name, err))
	}
	return addr
}

func handleXRequestTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newAPIServer(ctx *cli.Context, handler http.Handler) (*http.Server, net.Listener, error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Int(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleXRequestTimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}, listener, nil
}

func newMetricsServer(addr string) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}, listener, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(l *ledger, apiURL, metricsURL string) {
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Program      [ %v ]
    Instance dir [ %v ]
    Event DB     [ sqlite %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		"SkillStake "+fullVersion(),
		l.gene.ID(), l.gene.Name(),
		l.node.Program().Address,
		l.instanceDir,
		l.eventDB.DriverVersion(),
		apiURL,
		metricsURL)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.skillstake")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.skillstake")
		default:
			return filepath.Join(home, ".org.vechain.skillstake")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
