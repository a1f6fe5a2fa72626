// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv is the transactional byte-oriented key-value store that
// backs the trie of §4.C. It generalizes the teacher's lvldb package
// (a thin wrapper around goleveldb) from an Ethereum account store to an
// opaque, commit-epoch-tagged node store.
package kv

import "errors"

// ErrNotFound is returned by Getter.Get when the key is absent.
var ErrNotFound = errors.New("kv: not found")

// Getter reads values by key.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// Putter writes and deletes values by key.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Snapshot is a read-committed, point-in-time view obtained from Store.
// Snapshots never block writers and are released with Release.
type Snapshot interface {
	Getter
	Release()
}

// Batch groups a set of writes to be applied atomically.
type Batch interface {
	Putter
	// Commit atomically applies every write or put/delete buffered in the
	// batch; none apply if it returns an error (§5: "no partial commit is
	// possible").
	Commit() error
	// Len reports the number of buffered operations.
	Len() int
}

// Store is the full transactional KV contract: direct reads/writes for
// convenience, point-in-time snapshots for concurrent readers, and atomic
// batches for the single store-level write transaction per commit (§5).
type Store interface {
	Getter
	Putter
	NewBatch() Batch
	Snapshot() Snapshot
	Close() error
}

// Iterable is implemented by stores that can enumerate their keys under a
// prefix, ordered by key. trie's garbage collector uses it to sweep stale
// nodes; a Store that cannot provide it degrades GC to a no-op rather than
// guessing at reachability.
type Iterable interface {
	// Iterate calls fn once per key-value pair whose key starts with
	// prefix, in ascending key order, stopping at the first error fn
	// returns.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}
