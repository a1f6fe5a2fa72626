// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

func TestStoreResponseRoundTrip(t *testing.T) {
	backing := kv.NewMem()
	defer backing.Close()

	s := store.New(backing, 5)
	txRef := takamaka.SHA256([]byte("tx1"))
	resp := &response.GameteCreationResponse{UpdatesList: []takamaka.Update{}, Gamete: takamaka.NewStorageRef(txRef, 0)}

	require.NoError(t, s.PutResponse(txRef, resp))
	got, ok, err := s.GetResponse(txRef)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp, got)

	_, err = s.Commit()
	require.NoError(t, err)

	got, ok, err = s.GetResponse(txRef)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp, got)
}

func TestStoreHistoryElision(t *testing.T) {
	backing := kv.NewMem()
	defer backing.Close()

	s := store.New(backing, 5)
	owner := takamaka.NewStorageRef(takamaka.SHA256([]byte("owner")), 0)
	history := []takamaka.Bytes32{
		takamaka.SHA256([]byte("tx3")),
		takamaka.SHA256([]byte("tx2")),
		owner.TxRef,
	}

	require.NoError(t, s.PutHistory(owner, history))
	got, ok, err := s.GetHistory(owner)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, history, got)
}

func TestStoreInfoSlotsAndCheckout(t *testing.T) {
	backing := kv.NewMem()
	defer backing.Close()

	s := store.New(backing, 5)
	manifest := takamaka.NewStorageRef(takamaka.SHA256([]byte("manifest-tx")), 0)
	gamete := takamaka.NewStorageRef(takamaka.SHA256([]byte("gamete-tx")), 0)
	code := takamaka.SHA256([]byte("jar"))

	require.NoError(t, s.PutManifest(manifest))
	require.NoError(t, s.PutGamete(gamete))
	require.NoError(t, s.PutTakamakaCode(code))

	merged, err := s.Commit()
	require.NoError(t, err)

	checked := store.Checkout(backing, merged, 5, s.Epoch())

	gotManifest, ok, err := checked.GetManifest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, manifest, gotManifest)

	gotGamete, ok, err := checked.GetGamete()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, gamete, gotGamete)

	gotCode, ok, err := checked.GetTakamakaCode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, code, gotCode)
}

func TestMergedRootBytesRoundTrip(t *testing.T) {
	m := store.MergedRoot{
		Responses: takamaka.SHA256([]byte("r")),
		Histories: takamaka.SHA256([]byte("h")),
		Info:      takamaka.SHA256([]byte("i")),
	}
	parsed, err := store.ParseMergedRoot(m.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}
