// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/api"
	apipolicy "github.com/vechain/skillstake/api/policy"
	"github.com/vechain/skillstake/api/stakes"
	"github.com/vechain/skillstake/builtin/staker/pow"
	"github.com/vechain/skillstake/metrics"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

func serveAction(ctx *cli.Context) error {
	initLogger(ctx)
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	l := openLedger(ctx, node.Options{NTPCheck: ctx.Bool(ntpCheckFlag.Name)})
	defer l.Close()

	exitCtx := handleExitSignal()
	if _, err := l.gene.Apply(exitCtx, l.node); err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	apiHandler, apiClose := api.New(l.node, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Int(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	defer apiClose()

	apiSrv, apiListener, err := newAPIServer(ctx, apiHandler)
	if err != nil {
		return err
	}
	servers := map[*http.Server]func() error{apiSrv: func() error { return apiSrv.Serve(apiListener) }}

	metricsURL := "disabled"
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, metricsListener, err := newMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiListener.Close()
			return err
		}
		servers[metricsSrv] = func() error { return metricsSrv.Serve(metricsListener) }
		metricsURL = "http://" + metricsListener.Addr().String() + "/metrics"
	}

	printStartupMessage(l, "http://"+apiListener.Addr().String()+"/", metricsURL)

	g, gctx := errgroup.WithContext(exitCtx)
	for srv, serve := range servers {
		g.Go(func() error {
			if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		return l.node.Run(gctx)
	})
	return g.Wait()
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)
	l := openLedger(ctx, node.Options{})
	defer l.Close()

	pol, err := l.gene.Apply(context.Background(), l.node)
	if err != nil {
		return err
	}
	fmt.Printf("initialized %v [ %v ]\n", l.gene.Name(), l.gene.ID())
	return printJSON(apipolicy.ConvertPolicy(pol))
}

type amountOp int

const (
	opStake amountOp = iota
	opUnstake
	opFaucet
)

func amountAction(op amountOp) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		initLogger(ctx)
		caller := requireAccount(ctx, callerFlag)
		amount := ctx.Uint64(amountFlag.Name)

		l := openLedger(ctx, node.Options{})
		defer l.Close()

		pol, err := l.node.Policy()
		if err != nil {
			return err
		}
		run := map[amountOp]func(context.Context, thor.Address, thor.Address, uint64) error{
			opStake:   l.node.Stake,
			opUnstake: l.node.Unstake,
			opFaucet:  l.node.Faucet,
		}[op]
		if err := run(context.Background(), caller, pol.Mint, amount); err != nil {
			return err
		}
		return printStake(l.node, caller)
	}
}

func claimAction(ctx *cli.Context) error {
	initLogger(ctx)
	caller := requireAccount(ctx, callerFlag)

	l := openLedger(ctx, node.Options{})
	defer l.Close()

	pol, err := l.node.Policy()
	if err != nil {
		return err
	}
	claimed, err := l.node.Claim(context.Background(), caller, pol.Mint)
	if err != nil {
		return err
	}
	fmt.Printf("claimed %d\n", claimed)
	return nil
}

// mine solves the challenge of caller, reporting the hash rate when done.
func mine(ctx *cli.Context, n *node.Node, caller thor.Address) (*pow.Record, error) {
	ch, err := n.Challenge(caller)
	if err != nil {
		return nil, err
	}
	if ch.ProofsExhausted {
		return nil, errors.Errorf("no task id left for %v", caller)
	}
	taskID := ch.NextTaskID
	if ctx.IsSet(taskIDFlag.Name) {
		taskID = ctx.Uint64(taskIDFlag.Name)
	}
	fmt.Printf("mining task %d at difficulty %d...\n", taskID, ch.Difficulty)

	var attempts atomic.Uint64
	start := time.Now()
	proof, err := pow.Solve(handleExitSignal(), caller, ch.Mint, taskID, ch.Difficulty, 0, ctx.Int(threadsFlag.Name), &attempts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	fmt.Printf("found nonce %d after %d hashes in %v (%.0f H/s)\n",
		proof.Nonce, attempts.Load(), common.PrettyDuration(elapsed), float64(attempts.Load())/elapsed.Seconds())
	return proof, nil
}

func mineAction(ctx *cli.Context) error {
	initLogger(ctx)
	caller := requireAccount(ctx, callerFlag)

	l := openLedger(ctx, node.Options{})
	defer l.Close()

	proof, err := mine(ctx, l.node, caller)
	if err != nil {
		return err
	}
	return printJSON(&stakes.Proof{TaskID: proof.TaskID, Nonce: proof.Nonce, Hash: proof.Hash})
}

func proveAction(ctx *cli.Context) error {
	initLogger(ctx)
	caller := requireAccount(ctx, callerFlag)

	l := openLedger(ctx, node.Options{})
	defer l.Close()

	var (
		taskID, nonce uint64
		err           error
	)
	if s := ctx.String(nonceFlag.Name); s != "" {
		if nonce, err = strconv.ParseUint(s, 0, 64); err != nil {
			return errors.WithMessage(err, "--nonce")
		}
		ch, err := l.node.Challenge(caller)
		if err != nil {
			return err
		}
		taskID = ch.NextTaskID
		if ctx.IsSet(taskIDFlag.Name) {
			taskID = ctx.Uint64(taskIDFlag.Name)
		}
	} else {
		proof, err := mine(ctx, l.node, caller)
		if err != nil {
			return err
		}
		taskID, nonce = proof.TaskID, proof.Nonce
	}

	proof, err := l.node.RecordProof(context.Background(), caller, taskID, nonce)
	if err != nil {
		return err
	}
	fmt.Printf("proof recorded for task %d, hash %v\n", proof.TaskID, proof.Hash)
	return printStake(l.node, caller)
}

func setAPRAction(ctx *cli.Context) error {
	return adminAction(ctx, func(n *node.Node, caller thor.Address) error {
		return n.SetAPR(context.Background(), caller, ctx.Uint64(aprFlag.Name))
	})
}

func setFaucetCapAction(ctx *cli.Context) error {
	return adminAction(ctx, func(n *node.Node, caller thor.Address) error {
		return n.UpdateFaucetCap(context.Background(), caller, ctx.Uint64(faucetCapFlag.Name))
	})
}

func setOracleAction(ctx *cli.Context) error {
	authority := requireAccount(ctx, authorityFlag)
	return adminAction(ctx, func(n *node.Node, caller thor.Address) error {
		return n.SetOracleAuthority(context.Background(), caller, authority)
	})
}

func setPowAction(ctx *cli.Context) error {
	difficulty := ctx.Uint(difficultyFlag.Name)
	if difficulty > 255 {
		return errors.Errorf("--%s: out of range", difficultyFlag.Name)
	}
	return adminAction(ctx, func(n *node.Node, caller thor.Address) error {
		return n.SetPowConfig(context.Background(), caller, uint8(difficulty),
			ctx.Uint64(rewardFlag.Name), ctx.Uint64(oracleNonceFlag.Name))
	})
}

func adminAction(ctx *cli.Context, fn func(n *node.Node, caller thor.Address) error) error {
	initLogger(ctx)
	caller := requireAccount(ctx, callerFlag)

	l := openLedger(ctx, node.Options{})
	defer l.Close()

	if err := fn(l.node, caller); err != nil {
		return err
	}
	pol, err := l.node.Policy()
	if err != nil {
		return err
	}
	return printJSON(apipolicy.ConvertPolicy(pol))
}

func showAction(ctx *cli.Context) error {
	initLogger(ctx)
	l := openLedger(ctx, node.Options{})
	defer l.Close()

	switch ctx.Args().First() {
	case "policy":
		pol, err := l.node.Policy()
		if err != nil {
			return err
		}
		if ctx.Bool(rawFlag.Name) {
			spew.Dump(pol)
			return nil
		}
		return printJSON(apipolicy.ConvertPolicy(pol))
	case "stake":
		owner, err := parseAccount(ctx.Args().Get(1))
		if err != nil {
			return err
		}
		if ctx.Bool(rawFlag.Name) {
			view, err := l.node.GetStake(owner)
			if err != nil {
				return err
			}
			spew.Dump(view)
			return nil
		}
		return printStake(l.node, owner)
	default:
		return cli.ShowCommandHelp(ctx, "show")
	}
}

func verifyAction(ctx *cli.Context) error {
	initLogger(ctx)
	l := openLedger(ctx, node.Options{})
	defer l.Close()

	fmt.Println(">> Verifying stake records <<")
	var bar *pb.ProgressBar
	report, err := l.node.Verify(handleExitSignal(), func(done, total int) {
		if bar == nil {
			bar = pb.New(total).
				Set64(0).
				SetMaxWidth(90).
				Start()
		}
		bar.Increment()
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("records %d, sum of staked %d, total staked %d, vault balance %d\n",
		report.Records, report.SumStaked, report.TotalStaked, report.VaultBalance)
	if report.Derivation != nil {
		return errors.WithMessage(report.Derivation, "policy authorities")
	}
	if !report.OK() {
		return errors.New("staked amounts do not reconcile")
	}
	fmt.Println("OK")
	return nil
}

func printStake(n *node.Node, owner thor.Address) error {
	view, err := n.GetStake(owner)
	if err != nil {
		return err
	}
	return printJSON(stakes.ConvertStake(owner, view))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
