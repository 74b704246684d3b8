// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin/reverts"
)

func serve(f HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WrapHandlerFunc(f)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return HTTPError(nil, http.StatusNotFound)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevertError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		name   string
	}{
		{reverts.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
		{reverts.ErrFaucetCapExceeded, http.StatusBadRequest, "FaucetCapExceeded"},
		{reverts.ErrMathOverflow, http.StatusBadRequest, "MathOverflow"},
		{reverts.ErrNotInitialized, http.StatusBadRequest, "NotInitialized"},
		{errors.New("disk"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		rec := serve(func(http.ResponseWriter, *http.Request) error {
			return RevertError(tt.err)
		})
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		if tt.name == "" {
			continue
		}
		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, tt.name, resp.Revert)
		assert.Equal(t, tt.err.Error(), resp.Error)
	}
}

func TestParse(t *testing.T) {
	_, err := ParseAddress("0x01")
	assert.Error(t, err)

	v, err := ParseUint64("limit", "", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	v, err = ParseUint64("limit", "12", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), v)
	_, err = ParseUint64("limit", "-1", 7)
	assert.Error(t, err)
}
