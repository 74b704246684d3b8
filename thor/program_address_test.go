// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"bytes"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProgramAddress(t *testing.T) {
	program := BytesToAddress([]byte("program"))

	addr, bump, err := FindProgramAddress([][]byte{[]byte("vault")}, program)
	require.NoError(t, err)

	// deterministic
	again, againBump, err := FindProgramAddress([][]byte{[]byte("vault")}, program)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	// off curve
	_, err = new(edwards25519.Point).SetBytes(addr[:])
	assert.Error(t, err)

	assert.True(t, VerifyProgramAddress(addr, [][]byte{[]byte("vault")}, bump, program))
	assert.False(t, VerifyProgramAddress(addr, [][]byte{[]byte("state")}, bump, program))
	assert.False(t, VerifyProgramAddress(addr, [][]byte{[]byte("vault")}, bump, BytesToAddress([]byte("other"))))
}

func TestProgramAddressSeparation(t *testing.T) {
	program := BytesToAddress([]byte("program"))

	seen := make(map[Address]string)
	for _, seed := range []string{"state", "vault", "mint_auth", "stake"} {
		addr, _, err := FindProgramAddress([][]byte{[]byte(seed)}, program)
		require.NoError(t, err)
		if prev, ok := seen[addr]; ok {
			t.Fatalf("seed %q collides with %q", seed, prev)
		}
		seen[addr] = seed
	}
}

func TestCreateProgramAddressLimits(t *testing.T) {
	program := BytesToAddress([]byte("program"))

	_, err := CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)}, program)
	assert.ErrorIs(t, err, ErrSeedTooLong)

	seeds := make([][]byte, MaxSeeds+1)
	_, err = CreateProgramAddress(seeds, program)
	assert.ErrorIs(t, err, ErrMaxSeedsExceeded)

	_, _, err = FindProgramAddress(make([][]byte, MaxSeeds), program)
	assert.ErrorIs(t, err, ErrMaxSeedsExceeded)
}
