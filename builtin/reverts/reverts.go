// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindPolicy Kind = iota + 1
	KindAuthorization
	KindArithmetic
	KindBusiness
	KindConsistency
)

func (k Kind) String() string {
	switch k {
	case KindPolicy:
		return "policy"
	case KindAuthorization:
		return "authorization"
	case KindArithmetic:
		return "arithmetic"
	case KindBusiness:
		return "business"
	case KindConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// ErrRevert is a business rule violation. The whole operation is rolled back.
type ErrRevert struct {
	kind    Kind
	name    string
	message string
}

func New(kind Kind, name, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		name:    name,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Name returns the stable identifier of the revert, e.g. "NothingToClaim".
func (e *ErrRevert) Name() string {
	return e.name
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts by name, so a wrapped or re-created revert still matches its sentinel.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return e.name == t.name
}

// policy validation
var (
	ErrAprTooHigh             = New(KindPolicy, "AprTooHigh", "apr exceeds maximum")
	ErrInvalidPowDifficulty   = New(KindPolicy, "InvalidPowDifficulty", "pow difficulty exceeds maximum")
	ErrInvalidOracleAuthority = New(KindPolicy, "InvalidOracleAuthority", "oracle authority must not be empty")
	ErrStaleOracleUpdate      = New(KindPolicy, "StaleOracleUpdate", "oracle nonce must increase")
	ErrAlreadyInitialized     = New(KindPolicy, "AlreadyInitialized", "policy already initialized")
	ErrNotInitialized         = New(KindPolicy, "NotInitialized", "policy not initialized")
)

// authorization
var (
	ErrUnauthorized = New(KindAuthorization, "Unauthorized", "caller is not authorized")
)

// arithmetic
var (
	ErrMathOverflow = New(KindArithmetic, "MathOverflow", "arithmetic overflow")
)

// business rules
var (
	ErrInvalidAmount         = New(KindBusiness, "InvalidAmount", "amount must be positive")
	ErrInsufficientStake     = New(KindBusiness, "InsufficientStake", "insufficient staked amount")
	ErrFaucetCapExceeded     = New(KindBusiness, "FaucetCapExceeded", "faucet cap exceeded")
	ErrNothingToClaim        = New(KindBusiness, "NothingToClaim", "no rewards to claim")
	ErrProofDifficultyNotMet = New(KindBusiness, "ProofDifficultyNotMet", "proof does not meet difficulty")
	ErrProofTaskReplay       = New(KindBusiness, "ProofTaskReplay", "task id must increase")
	ErrProofTooLarge         = New(KindBusiness, "ProofTooLarge", "proof exceeds storage limit")
)

// consistency
var (
	ErrMintMismatch = New(KindConsistency, "MintMismatch", "token does not match policy mint")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert in err's chain, or 0 if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}

// NameOf returns the name of the revert in err's chain, or "" if err is not a revert.
func NameOf(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.name
	}
	return ""
}
