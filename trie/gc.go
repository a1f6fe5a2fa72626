// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"encoding/binary"

	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/takamaka"
)

// GarbageCollect reclaims nodes that are both stale (written before epoch
// n - checkableDepth) and unreachable from any of retainedRoots.
//
// checkable_depth's sign decides the policy (§4.C, §9's open question on the
// exact tagging scheme resolved here): negative means GC never runs;
// zero or positive bounds how many past commits are kept checkable, and
// retainedRoots is expected to hold exactly that many roots (the caller,
// store.Store, is the one tracking root history across commits).
//
// A node is retained regardless of its age if it is still reachable from
// any retained root: staleness alone never deletes a node that a kept
// snapshot still needs.
func GarbageCollect(store kv.Store, retainedRoots []takamaka.Bytes32, checkableDepth int, epoch uint32) error {
	if checkableDepth < 0 {
		return nil
	}
	if epoch < uint32(checkableDepth) {
		return nil
	}
	threshold := epoch - uint32(checkableDepth)

	reachable := make(map[takamaka.Bytes32]struct{})
	for _, root := range retainedRoots {
		if root.IsZero() {
			continue
		}
		if err := markReachable(store, root, reachable); err != nil {
			return err
		}
	}

	it, ok := store.(kv.Iterable)
	if !ok {
		// The store cannot enumerate its keys; without that, sweeping is
		// impossible and GC degrades to a no-op rather than guessing.
		return nil
	}
	return it.Iterate([]byte("trie/n"), func(key, record []byte) error {
		var h takamaka.Bytes32
		copy(h[:], key[6:])
		if _, keep := reachable[h]; keep {
			return nil
		}
		if len(record) < 4 {
			return nil
		}
		writtenAt := binary.BigEndian.Uint32(record[:4])
		if writtenAt < threshold {
			return store.Delete(key)
		}
		return nil
	})
}

func markReachable(store kv.Store, h takamaka.Bytes32, seen map[takamaka.Bytes32]struct{}) error {
	if _, ok := seen[h]; ok {
		return nil
	}
	seen[h] = struct{}{}

	raw, err := store.Get(nodeStoreKey(h))
	if err != nil {
		return err
	}
	n, err := decodeNode(raw[4:])
	if err != nil {
		return err
	}
	switch n.kind {
	case kindExtension:
		return markReachable(store, n.child, seen)
	case kindBranch:
		for i := 0; i < 16; i++ {
			if n.hasChild[i] {
				if err := markReachable(store, n.children[i], seen); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
