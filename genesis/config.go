// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/skillstake/thor"
)

// Config is the network configuration applied by the first initialize.
type Config struct {
	Name            string       `yaml:"name"`
	Admin           thor.Address `yaml:"admin"`
	OracleAuthority thor.Address `yaml:"oracleAuthority"`
	// Mint is the token reference. When empty it is derived from MintSeed.
	Mint          *thor.Address `yaml:"mint,omitempty"`
	MintSeed      string        `yaml:"mintSeed,omitempty"`
	Decimals      uint8         `yaml:"decimals"`
	APRBps        uint64        `yaml:"aprBps"`
	FaucetCap     uint64        `yaml:"faucetCap"`
	PowReward     uint64        `yaml:"powReward"`
	PowDifficulty uint8         `yaml:"powDifficulty"`
	Accounts      []Account     `yaml:"accounts,omitempty"`
}

// Account is an initial token balance.
type Account struct {
	Address thor.Address `yaml:"address"`
	Balance uint64       `yaml:"balance"`
}

// LoadConfig reads a YAML config file. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "genesis file %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML config.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return &cfg, nil
}

// MintAddress returns the configured token reference.
func (c *Config) MintAddress() thor.Address {
	if c.Mint != nil {
		return *c.Mint
	}
	return thor.BytesToAddress(thor.Blake2b([]byte("mint"), []byte(c.MintSeed)).Bytes())
}

// Validate checks the config before anything is written.
func (c *Config) Validate() error {
	if c.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	if c.OracleAuthority.IsZero() {
		return errors.New("oracleAuthority must be set")
	}
	if (c.Mint == nil) == (c.MintSeed == "") {
		return errors.New("exactly one of mint and mintSeed must be set")
	}
	if c.Mint != nil && c.Mint.IsZero() {
		return errors.New("mint must not be zero")
	}
	if c.APRBps > thor.MaxAPRBps {
		return fmt.Errorf("aprBps must not exceed %d", thor.MaxAPRBps)
	}
	if c.PowDifficulty > thor.MaxPowDifficulty {
		return fmt.Errorf("powDifficulty must not exceed %d", thor.MaxPowDifficulty)
	}

	seen := make(map[thor.Address]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Address.IsZero() {
			return errors.New("account address must be set")
		}
		if a.Balance == 0 {
			return fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return fmt.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
	}
	return nil
}
