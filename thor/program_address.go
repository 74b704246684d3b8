// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"io"

	"filippo.io/edwards25519"
)

const (
	// MaxSeeds maximum number of seeds used to derive a program address.
	MaxSeeds = 16
	// MaxSeedLength maximum length in bytes of a single seed.
	MaxSeedLength = 32
)

var (
	programAddressMarker = []byte("ProgramDerivedAddress")

	ErrMaxSeedsExceeded  = errors.New("too many seeds")
	ErrSeedTooLong       = errors.New("seed too long")
	ErrAddressOnCurve    = errors.New("derived address is a valid ed25519 point")
	ErrNoViableBumpFound = errors.New("unable to find a viable program address bump")
)

// CreateProgramAddress derives a deterministic identity owned by program from the given seeds.
// The result is guaranteed not to be a valid ed25519 public key, so no private key can sign for it;
// only the program that knows the seeds may act on its behalf.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, ErrMaxSeedsExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Address{}, ErrSeedTooLong
		}
	}

	h := Blake2bFn(func(w io.Writer) {
		for _, seed := range seeds {
			w.Write(seed)
		}
		w.Write(program[:])
		w.Write(programAddressMarker)
	})

	if _, err := new(edwards25519.Point).SetBytes(h[:]); err == nil {
		return Address{}, ErrAddressOnCurve
	}
	return Address(h), nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the first off-curve
// address together with its bump. The bump is the derivation proof: anyone can verify the
// address by calling CreateProgramAddress with seeds plus the bump.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrAddressOnCurve) {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrNoViableBumpFound
}

// VerifyProgramAddress reports whether addr is the program address derived from seeds and bump.
func VerifyProgramAddress(addr Address, seeds [][]byte, bump uint8, program Address) bool {
	withBump := append(append([][]byte{}, seeds...), []byte{bump})
	derived, err := CreateProgramAddress(withBump, program)
	if err != nil {
		return false
	}
	return derived == addr
}
