// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync"

	"github.com/vechain/skillstake/thor"
)

const devAccountCount = 10

var devAccounts = sync.OnceValue(func() []thor.Address {
	accs := make([]thor.Address, 0, devAccountCount)
	for i := range devAccountCount {
		accs = append(accs, thor.BytesToAddress(thor.Blake2b([]byte("devnet"), []byte{byte(i)}).Bytes()))
	}
	return accs
})

// DevAccounts returns the deterministic devnet identities.
// The first is the admin, the second the oracle authority.
func DevAccounts() []thor.Address {
	return devAccounts()
}

// NewDevnet creates the devnet genesis. Every dev account other than admin and oracle
// starts with 1000 tokens.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	cfg := &Config{
		Name:            "devnet",
		Admin:           accs[0],
		OracleAuthority: accs[1],
		MintSeed:        "devnet",
		Decimals:        9,
		APRBps:          1000,
		FaucetCap:       100_000_000_000,
		PowReward:       1_000_000_000,
		PowDifficulty:   16,
	}
	for _, a := range accs[2:] {
		cfg.Accounts = append(cfg.Accounts, Account{Address: a, Balance: 1_000_000_000_000})
	}
	gen, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return gen
}
