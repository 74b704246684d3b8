// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/genesis"
)

func TestParseAccount(t *testing.T) {
	addr, err := parseAccount("2")
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[2], addr)

	addr, err = parseAccount(genesis.DevAccounts()[5].String())
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[5], addr)

	for _, s := range []string{"", "-1", "10", "0x01"} {
		_, err := parseAccount(s)
		assert.Error(t, err, s)
	}
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(1), 128)
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
	assert.Equal(t, 128*1024, stateCacheEntries(256))
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	assert.Contains(t, defaultDataDir(), "skillstake")
}
