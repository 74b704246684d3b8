// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(KindBusiness, "Test", "test")
	assert.Equal(t, "test", revert.Error())
	assert.Equal(t, "Test", revert.Name())
	assert.Equal(t, KindBusiness, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestWrappedRevert(t *testing.T) {
	err := errors.Wrap(ErrNothingToClaim, "claim")

	assert.True(t, IsRevertErr(err))
	assert.ErrorIs(t, err, ErrNothingToClaim)
	assert.NotErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, KindBusiness, KindOf(err))
	assert.Equal(t, "NothingToClaim", NameOf(err))

	assert.Equal(t, Kind(0), KindOf(errors.New("io")))
	assert.Equal(t, "", NameOf(errors.New("io")))
}

func TestKinds(t *testing.T) {
	cases := map[*ErrRevert]Kind{
		ErrAprTooHigh:             KindPolicy,
		ErrInvalidPowDifficulty:   KindPolicy,
		ErrInvalidOracleAuthority: KindPolicy,
		ErrStaleOracleUpdate:      KindPolicy,
		ErrUnauthorized:           KindAuthorization,
		ErrMathOverflow:           KindArithmetic,
		ErrInvalidAmount:          KindBusiness,
		ErrFaucetCapExceeded:      KindBusiness,
		ErrProofTaskReplay:        KindBusiness,
		ErrMintMismatch:           KindConsistency,
	}
	for err, kind := range cases {
		assert.Equal(t, kind, err.Kind(), err.Name())
	}
	assert.Equal(t, "authorization", KindAuthorization.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
