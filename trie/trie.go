// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"encoding/binary"
	"fmt"

	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/takamaka"
)

// Trie is a persistent, content-addressed Merkle-Patricia trie over
// 4-bit-nibble paths (§4.C). Every Put is copy-on-write: it never mutates a
// previously committed node, so any root hash handed out by Commit can be
// checked out again later as long as its nodes have not been garbage
// collected.
//
// A Trie is not safe for concurrent use; callers serialize access the way
// store.Store serializes commits.
type Trie struct {
	store kv.Store
	root  takamaka.Bytes32
	empty bool

	// dirty holds nodes created since the last Commit, keyed by hash, not
	// yet written to the store. Put builds up dirty; Commit flushes it.
	dirty map[takamaka.Bytes32]*node
}

// New opens a trie at the given root. An empty (zero) root denotes the
// empty trie.
func New(root takamaka.Bytes32, store kv.Store) *Trie {
	return &Trie{
		store: store,
		root:  root,
		empty: root.IsZero(),
		dirty: make(map[takamaka.Bytes32]*node),
	}
}

// Root returns the current root hash and whether the trie is non-empty.
func (t *Trie) Root() (takamaka.Bytes32, bool) {
	return t.root, !t.empty
}

func (t *Trie) loadNode(h takamaka.Bytes32) (*node, error) {
	if n, ok := t.dirty[h]; ok {
		return n, nil
	}
	raw, err := t.store.Get(nodeStoreKey(h))
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("trie: corrupt node record for %s", h)
	}
	return decodeNode(raw[4:])
}

// stage records a newly built node in the dirty set and returns its hash.
func (t *Trie) stage(n *node) takamaka.Bytes32 {
	h := n.hash()
	t.dirty[h] = n
	return h
}

func nodeStoreKey(h takamaka.Bytes32) []byte {
	key := make([]byte, 0, 6+32)
	key = append(key, 't', 'r', 'i', 'e', '/', 'n')
	key = append(key, h.Bytes()...)
	return key
}

// Get looks up key, returning (value, true, nil) if present.
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	if t.empty {
		return nil, false, nil
	}
	return t.get(t.root, keyToNibbles(key))
}

func (t *Trie) get(h takamaka.Bytes32, path []byte) ([]byte, bool, error) {
	n, err := t.loadNode(h)
	if err != nil {
		return nil, false, err
	}
	switch n.kind {
	case kindLeaf:
		if bytesEqual(n.path, path) {
			return n.value, true, nil
		}
		return nil, false, nil
	case kindExtension:
		pl := len(n.path)
		if len(path) < pl || !bytesEqual(n.path, path[:pl]) {
			return nil, false, nil
		}
		return t.get(n.child, path[pl:])
	case kindBranch:
		if len(path) == 0 {
			if n.hasValue {
				return n.value16, true, nil
			}
			return nil, false, nil
		}
		nib := path[0]
		if !n.hasChild[nib] {
			return nil, false, nil
		}
		return t.get(n.children[nib], path[1:])
	default:
		return nil, false, fmt.Errorf("trie: unknown node kind %d", n.kind)
	}
}

// Put inserts or overwrites key with value, updating the trie's root.
func (t *Trie) Put(key, value []byte) error {
	path := keyToNibbles(key)
	if t.empty {
		t.root = t.stage(newLeaf(path, value))
		t.empty = false
		return nil
	}
	newRoot, err := t.put(t.root, path, value)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) put(h takamaka.Bytes32, path, value []byte) (takamaka.Bytes32, error) {
	n, err := t.loadNode(h)
	if err != nil {
		return takamaka.Bytes32{}, err
	}
	switch n.kind {
	case kindLeaf:
		return t.putIntoLeaf(n, path, value)
	case kindExtension:
		return t.putIntoExtension(n, path, value)
	case kindBranch:
		return t.putIntoBranch(n, path, value)
	default:
		return takamaka.Bytes32{}, fmt.Errorf("trie: unknown node kind %d", n.kind)
	}
}

func (t *Trie) putIntoLeaf(n *node, path, value []byte) (takamaka.Bytes32, error) {
	if bytesEqual(n.path, path) {
		return t.stage(newLeaf(path, value)), nil
	}

	cp := commonPrefixLen(n.path, path)
	branch := newBranch()

	if err := t.attachRemainder(branch, n.path[cp:], n.value, path[cp:], value); err != nil {
		return takamaka.Bytes32{}, err
	}

	branchHash := t.stage(branch)
	if cp == 0 {
		return branchHash, nil
	}
	return t.stage(newExtension(n.path[:cp], branchHash)), nil
}

func (t *Trie) putIntoExtension(n *node, path, value []byte) (takamaka.Bytes32, error) {
	pl := len(n.path)
	if len(path) >= pl && bytesEqual(n.path, path[:pl]) {
		childHash, err := t.put(n.child, path[pl:], value)
		if err != nil {
			return takamaka.Bytes32{}, err
		}
		return t.stage(newExtension(n.path, childHash)), nil
	}

	cp := commonPrefixLen(n.path, path)
	branch := newBranch()

	var existingChild takamaka.Bytes32
	if cp+1 == len(n.path) {
		existingChild = n.child
	} else {
		existingChild = t.stage(newExtension(n.path[cp+1:], n.child))
	}
	branch.hasChild[n.path[cp]] = true
	branch.children[n.path[cp]] = existingChild

	if cp == len(path) {
		branch.hasValue = true
		branch.value16 = value
	} else {
		leafHash := t.stage(newLeaf(path[cp+1:], value))
		branch.hasChild[path[cp]] = true
		branch.children[path[cp]] = leafHash
	}

	branchHash := t.stage(branch)
	if cp == 0 {
		return branchHash, nil
	}
	return t.stage(newExtension(path[:cp], branchHash)), nil
}

func (t *Trie) putIntoBranch(n *node, path, value []byte) (takamaka.Bytes32, error) {
	updated := *n
	if len(path) == 0 {
		updated.hasValue = true
		updated.value16 = value
		return t.stage(&updated), nil
	}
	nib := path[0]
	if updated.hasChild[nib] {
		childHash, err := t.put(updated.children[nib], path[1:], value)
		if err != nil {
			return takamaka.Bytes32{}, err
		}
		updated.children[nib] = childHash
	} else {
		updated.hasChild[nib] = true
		updated.children[nib] = t.stage(newLeaf(path[1:], value))
	}
	return t.stage(&updated), nil
}

// attachRemainder wires the diverging suffixes of two paths (from a
// leaf-leaf split) into branch as either direct values (suffix exhausted)
// or freshly staged leaves.
func (t *Trie) attachRemainder(branch *node, pathA, valueA, pathB, valueB []byte) error {
	if len(pathA) == 0 {
		branch.hasValue = true
		branch.value16 = valueA
	} else {
		branch.hasChild[pathA[0]] = true
		branch.children[pathA[0]] = t.stage(newLeaf(pathA[1:], valueA))
	}
	if len(pathB) == 0 {
		if branch.hasValue {
			return fmt.Errorf("trie: duplicate terminal key during split")
		}
		branch.hasValue = true
		branch.value16 = valueB
	} else {
		branch.hasChild[pathB[0]] = true
		branch.children[pathB[0]] = t.stage(newLeaf(pathB[1:], valueB))
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Commit flushes every node staged since the trie was opened (or since the
// previous Commit) to the store, tagging each with epoch, and returns the
// resulting root. It is the caller's responsibility (store.Store) to batch
// this alongside the companion tries and the info trie so that a crash
// between them cannot leave the merged root pointing at a partially
// written generation.
func (t *Trie) Commit(batch kv.Batch, epoch uint32) (takamaka.Bytes32, bool, error) {
	for h, n := range t.dirty {
		var header [4]byte
		binary.BigEndian.PutUint32(header[:], epoch)
		record := append(header[:], n.encode()...)
		if err := batch.Put(nodeStoreKey(h), record); err != nil {
			return takamaka.Bytes32{}, false, err
		}
	}
	t.dirty = make(map[takamaka.Bytes32]*node)
	return t.root, !t.empty, nil
}
