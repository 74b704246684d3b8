// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	storeFlags := []cli.Flag{genesisFlag, dataDirFlag, cacheFlag, verbosityFlag, jsonLogsFlag}
	withStore := func(flags ...cli.Flag) []cli.Flag {
		return append(append([]cli.Flag{}, storeFlags...), flags...)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "SkillStake",
		Usage:     "Staking ledger with time-based rewards, a capped faucet and proof-of-work bonuses",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: withStore(
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			ntpCheckFlag,
		),
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "create the policy, the token and the initial balances",
				Flags:  storeFlags,
				Action: initAction,
			},
			{
				Name:   "stake",
				Usage:  "lock tokens in the vault",
				Flags:  withStore(callerFlag, amountFlag),
				Action: amountAction(opStake),
			},
			{
				Name:   "unstake",
				Usage:  "release staked tokens",
				Flags:  withStore(callerFlag, amountFlag),
				Action: amountAction(opUnstake),
			},
			{
				Name:   "faucet",
				Usage:  "mint tokens within the faucet cap",
				Flags:  withStore(callerFlag, amountFlag),
				Action: amountAction(opFaucet),
			},
			{
				Name:   "claim",
				Usage:  "mint pending rewards",
				Flags:  withStore(callerFlag),
				Action: claimAction,
			},
			{
				Name:   "prove",
				Usage:  "submit a proof of work, mining it when no nonce is given",
				Flags:  withStore(callerFlag, taskIDFlag, nonceFlag, threadsFlag),
				Action: proveAction,
			},
			{
				Name:   "mine",
				Usage:  "mine a proof of work without submitting it",
				Flags:  withStore(callerFlag, taskIDFlag, threadsFlag),
				Action: mineAction,
			},
			{
				Name:   "set-apr",
				Usage:  "update the annual rate (admin)",
				Flags:  withStore(callerFlag, aprFlag),
				Action: setAPRAction,
			},
			{
				Name:   "set-faucet-cap",
				Usage:  "update the faucet cap (admin)",
				Flags:  withStore(callerFlag, faucetCapFlag),
				Action: setFaucetCapAction,
			},
			{
				Name:   "set-oracle",
				Usage:  "replace the oracle authority (admin)",
				Flags:  withStore(callerFlag, authorityFlag),
				Action: setOracleAction,
			},
			{
				Name:   "set-pow",
				Usage:  "update proof-of-work difficulty and reward (admin or oracle)",
				Flags:  withStore(callerFlag, difficultyFlag, rewardFlag, oracleNonceFlag),
				Action: setPowAction,
			},
			{
				Name:      "show",
				Usage:     "print the policy or a stake record",
				ArgsUsage: "policy | stake <address>",
				Flags:     withStore(rawFlag),
				Action:    showAction,
			},
			{
				Name:   "verify",
				Usage:  "recompute the total staked from every stake record",
				Flags:  storeFlags,
				Action: verifyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
