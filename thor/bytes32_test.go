// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes32JSON(t *testing.T) {
	hash := BytesToBytes32([]byte("skillstake"))
	quoted := `"0x00000000000000000000000000000000000000000000736b696c6c7374616b65"`

	data, err := json.Marshal(hash)
	require.NoError(t, err)
	assert.Equal(t, `"`+hash.String()+`"`, string(data))

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, hash, decoded)

	// inside a record
	type proof struct {
		Hash Bytes32 `json:"hash"`
	}
	data, err = json.Marshal(&proof{Hash: hash})
	require.NoError(t, err)
	assert.Equal(t, `{"hash":`+quoted+`}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`"zz`+quoted[3:]), &decoded))
}

func TestParseBytes32(t *testing.T) {
	hash := Keccak256([]byte("skillstake_pow"))

	parsed, err := ParseBytes32(hash.String())
	require.NoError(t, err)
	assert.Equal(t, hash, parsed)

	parsed, err = ParseBytes32(hash.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, hash, parsed)

	_, err = ParseBytes32("0y" + hash.String()[2:])
	assert.Error(t, err)
	_, err = ParseBytes32(hash.String()[:10])
	assert.Error(t, err)

	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, hash.IsZero())
	assert.Equal(t, hash[:], hash.Bytes())
}
