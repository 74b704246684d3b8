// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"encoding/binary"
	"fmt"

	"github.com/vechain/skillstake/thor"
)

const (
	// TokenSize is the encoded size of a token record.
	TokenSize = thor.AddressLength + 1
	// AccountSize is the encoded size of an account record.
	AccountSize = 2*thor.AddressLength + 8
)

// Token describes a fungible token. Only Authority may mint it.
type Token struct {
	Authority thor.Address
	Decimals  uint8
}

func (t *Token) Encode() ([]byte, error) {
	buf := make([]byte, 0, TokenSize)
	buf = append(buf, t.Authority[:]...)
	return append(buf, t.Decimals), nil
}

func (t *Token) Decode(data []byte) error {
	if len(data) != TokenSize {
		return fmt.Errorf("token record: invalid length %d", len(data))
	}
	copy(t.Authority[:], data)
	t.Decimals = data[thor.AddressLength]
	return nil
}

// Account holds a balance of one token. Only Owner may move funds out of it.
type Account struct {
	Mint    thor.Address
	Owner   thor.Address
	Balance uint64
}

func (a *Account) Encode() ([]byte, error) {
	buf := make([]byte, 0, AccountSize)
	buf = append(buf, a.Mint[:]...)
	buf = append(buf, a.Owner[:]...)
	return binary.LittleEndian.AppendUint64(buf, a.Balance), nil
}

func (a *Account) Decode(data []byte) error {
	if len(data) != AccountSize {
		return fmt.Errorf("account record: invalid length %d", len(data))
	}
	copy(a.Mint[:], data)
	copy(a.Owner[:], data[thor.AddressLength:])
	a.Balance = binary.LittleEndian.Uint64(data[2*thor.AddressLength:])
	return nil
}
