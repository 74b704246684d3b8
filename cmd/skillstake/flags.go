// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Value: "devnet",
		Usage: "the network to use (devnet) or the path to a YAML genesis file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the database cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiSlowQueriesThresholdFlag = cli.IntFlag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries slower than this threshold in milliseconds are logged",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	ntpCheckFlag = cli.BoolFlag{
		Name:  "ntp-check",
		Usage: "check the local clock against NTP periodically",
	}

	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address of the caller, or the index of a devnet account",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "address of a participant, or the index of a devnet account",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "amount in base units",
	}
	taskIDFlag = cli.Uint64Flag{
		Name:  "task-id",
		Usage: "task id of the proof, defaults to the next one",
	}
	nonceFlag = cli.StringFlag{
		Name:  "nonce",
		Usage: "nonce of the proof, mined when omitted",
	}
	threadsFlag = cli.IntFlag{
		Name:  "threads",
		Usage: "mining threads, defaults to the number of CPUs",
	}
	aprFlag = cli.Uint64Flag{
		Name:  "apr-bps",
		Usage: "annual rate in basis points",
	}
	faucetCapFlag = cli.Uint64Flag{
		Name:  "faucet-cap",
		Usage: "per-participant faucet cap in base units",
	}
	authorityFlag = cli.StringFlag{
		Name:  "authority",
		Usage: "address of the new oracle authority",
	}
	difficultyFlag = cli.UintFlag{
		Name:  "difficulty",
		Usage: "required leading zero bits of proof hashes",
	}
	rewardFlag = cli.Uint64Flag{
		Name:  "reward",
		Usage: "reward per admitted proof in base units",
	}
	oracleNonceFlag = cli.Uint64Flag{
		Name:  "oracle-nonce",
		Usage: "oracle nonce, must exceed the current one",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "dump the raw records",
	}
)
