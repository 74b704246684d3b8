// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/skillstake/builtin/policy"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/staker"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/node"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis is a validated network configuration.
type Genesis struct {
	name   string
	config *Config
	id     thor.Bytes32
}

// New validates cfg and computes its id.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid genesis")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "encode genesis")
	}
	name := cfg.Name
	if name == "" {
		name = "customnet"
	}
	return &Genesis{name, cfg, thor.Blake2b(data)}, nil
}

// Name returns network name.
func (g *Genesis) Name() string { return g.name }

// ID returns the hash of the canonical encoding of the config.
func (g *Genesis) ID() thor.Bytes32 { return g.id }

// Config returns the config.
func (g *Genesis) Config() *Config { return g.config }

// InitParams returns the arguments of the first initialize.
func (g *Genesis) InitParams() staker.InitParams {
	return staker.InitParams{
		APRBps:          g.config.APRBps,
		FaucetCap:       g.config.FaucetCap,
		PowReward:       g.config.PowReward,
		PowDifficulty:   g.config.PowDifficulty,
		OracleAuthority: g.config.OracleAuthority,
		Mint:            g.config.MintAddress(),
	}
}

// Bootstrap returns the custody setup done with the first initialize.
func (g *Genesis) Bootstrap() *node.Bootstrap {
	boot := &node.Bootstrap{
		Decimals: g.config.Decimals,
		Balances: make(map[thor.Address]uint64, len(g.config.Accounts)),
	}
	for _, a := range g.config.Accounts {
		boot.Balances[a.Address] = a.Balance
	}
	return boot
}

// Apply initializes the node with the genesis, or checks that an initialized node was
// created with the same admin and mint.
func (g *Genesis) Apply(ctx context.Context, n *node.Node) (*policy.Record, error) {
	pol, err := n.Policy()
	switch {
	case err == nil:
		if pol.Admin != g.config.Admin || pol.Mint != g.config.MintAddress() {
			return nil, errors.Errorf("genesis %v does not match the stored policy", g.name)
		}
		if err := n.Program().Authorities.Check(pol.Vault, pol.Bump, pol.VaultBump, pol.MintAuthBump); err != nil {
			return nil, errors.WithMessagef(err, "genesis %v", g.name)
		}
		logger.Debug("genesis already applied", "name", g.name)
		return pol, nil
	case !errors.Is(err, reverts.ErrNotInitialized):
		return nil, err
	}

	pol, err = n.Initialize(ctx, g.config.Admin, g.InitParams(), g.Bootstrap())
	if err != nil {
		return nil, errors.WithMessagef(err, "apply genesis %v", g.name)
	}
	logger.Info("genesis applied", "name", g.name, "id", g.id, "mint", pol.Mint, "accounts", len(g.config.Accounts))
	return pol, nil
}
