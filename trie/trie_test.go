// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/trie"
)

func commit(t *testing.T, tr *trie.Trie, store kv.Store, epoch uint32) takamaka.Bytes32 {
	t.Helper()
	batch := store.NewBatch()
	root, nonEmpty, err := tr.Commit(batch, epoch)
	require.NoError(t, err)
	require.True(t, nonEmpty)
	require.NoError(t, batch.Commit())
	return root
}

func TestTrieEmpty(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	_, ok, err := tr.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	root, has := tr.Root()
	assert.False(t, has)
	assert.True(t, root.IsZero())
}

func TestTriePutGetSingle(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	require.NoError(t, tr.Put([]byte("k"), []byte("v1")))

	v, ok, err := tr.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	root := commit(t, tr, store, 1)

	reopened := trie.New(root, store)
	v, ok, err = reopened.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
}

func TestTrieManyKeysAndOverwrite(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	keys := [][]byte{
		[]byte("alpha"), []byte("albatross"), []byte("beta"),
		[]byte("bet"), []byte{0x00}, []byte{0x00, 0x01}, []byte{0xff, 0xff},
	}
	for i, k := range keys {
		require.NoError(t, tr.Put(k, []byte{byte(i)}))
	}
	require.NoError(t, tr.Put(keys[0], []byte("overwritten")))

	root := commit(t, tr, store, 1)
	reopened := trie.New(root, store)

	v, ok, err := reopened.Get(keys[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("overwritten"), v)

	for i, k := range keys[1:] {
		v, ok, err := reopened.Get(k)
		require.NoError(t, err)
		require.True(t, ok, "key %x should be present", k)
		assert.Equal(t, []byte{byte(i + 1)}, v)
	}

	_, ok, err = reopened.Get([]byte("nonexistent"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrieRootStableAcrossReopen(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	require.NoError(t, tr.Put([]byte("x"), []byte("1")))
	require.NoError(t, tr.Put([]byte("y"), []byte("2")))
	root1 := commit(t, tr, store, 1)

	tr2 := trie.New(takamaka.Bytes32{}, store)
	require.NoError(t, tr2.Put([]byte("y"), []byte("2")))
	require.NoError(t, tr2.Put([]byte("x"), []byte("1")))
	root2 := commit(t, tr2, store, 2)

	assert.Equal(t, root1, root2, "identical key/value sets must produce identical roots regardless of insertion order")
}

func TestGarbageCollectRetainsReachableNodes(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	require.NoError(t, tr.Put([]byte("k1"), []byte("v1")))
	root1 := commit(t, tr, store, 1)

	tr2 := trie.New(root1, store)
	require.NoError(t, tr2.Put([]byte("k2"), []byte("v2")))
	root2 := commit(t, tr2, store, 2)

	require.NoError(t, trie.GarbageCollect(store, []takamaka.Bytes32{root2}, 0, 10))

	reopened := trie.New(root2, store)
	v, ok, err := reopened.Get([]byte("k1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
	v, ok, err = reopened.Get([]byte("k2"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), v)
}

func TestGarbageCollectNegativeDepthIsNoop(t *testing.T) {
	store := kv.NewMem()
	defer store.Close()

	tr := trie.New(takamaka.Bytes32{}, store)
	require.NoError(t, tr.Put([]byte("k"), []byte("v")))
	root := commit(t, tr, store, 1)

	require.NoError(t, trie.GarbageCollect(store, nil, -1, 100))

	reopened := trie.New(root, store)
	_, ok, err := reopened.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}
