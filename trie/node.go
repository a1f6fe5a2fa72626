// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package trie implements the 17-branch Merkle-Patricia trie of §4.C: a
// persistent map over 4-bit-nibble paths, backed by a transactional kv
// store, with epoch-tagged nodes and checkable_depth-bounded garbage
// collection.
package trie

import (
	"bytes"
	"fmt"

	"github.com/takamaka/node/marshal"
	"github.com/takamaka/node/takamaka"
)

type nodeKind byte

const (
	kindLeaf nodeKind = iota
	kindExtension
	kindBranch
)

// node is the in-memory representation of one trie node. Only one of the
// shape-specific fields is meaningful, selected by kind.
type node struct {
	kind nodeKind

	// leaf, extension
	path []byte // nibbles

	// leaf
	value []byte

	// extension
	child takamaka.Bytes32

	// branch: 16 child slots keyed by nibble, plus an optional value for
	// a key that terminates exactly at this branch.
	children [16]takamaka.Bytes32
	hasChild [16]bool
	value16  []byte
	hasValue bool
}

func newLeaf(path, value []byte) *node {
	return &node{kind: kindLeaf, path: append([]byte(nil), path...), value: append([]byte(nil), value...)}
}

func newExtension(path []byte, child takamaka.Bytes32) *node {
	return &node{kind: kindExtension, path: append([]byte(nil), path...), child: child}
}

func newBranch() *node {
	return &node{kind: kindBranch}
}

// encode renders the node's canonical, epoch-independent content (so that
// structurally identical nodes always hash the same way, per §4.A's
// canonical-encoding principle applied here to trie nodes).
func (n *node) encode() []byte {
	var buf bytes.Buffer
	w := marshal.NewWriter(&buf)
	w.Byte(byte(n.kind))
	switch n.kind {
	case kindLeaf:
		w.LengthPrefixedBytes(n.path)
		w.LengthPrefixedBytes(n.value)
	case kindExtension:
		w.LengthPrefixedBytes(n.path)
		w.Bytes(n.child.Bytes())
	case kindBranch:
		for i := 0; i < 16; i++ {
			w.Bool(n.hasChild[i])
			if n.hasChild[i] {
				w.Bytes(n.children[i].Bytes())
			}
		}
		w.Bool(n.hasValue)
		if n.hasValue {
			w.LengthPrefixedBytes(n.value16)
		}
	}
	return buf.Bytes()
}

func decodeNode(data []byte) (*node, error) {
	r := marshal.NewReader(bytes.NewReader(data))
	kind := nodeKind(r.Byte())
	n := &node{kind: kind}
	switch kind {
	case kindLeaf:
		n.path = r.LengthPrefixedBytes()
		n.value = r.LengthPrefixedBytes()
	case kindExtension:
		n.path = r.LengthPrefixedBytes()
		var h takamaka.Bytes32
		copy(h[:], r.Bytes(32))
		n.child = h
	case kindBranch:
		for i := 0; i < 16; i++ {
			if r.Bool() {
				n.hasChild[i] = true
				var h takamaka.Bytes32
				copy(h[:], r.Bytes(32))
				n.children[i] = h
			}
		}
		if r.Bool() {
			n.hasValue = true
			n.value16 = r.LengthPrefixedBytes()
		}
	default:
		return nil, fmt.Errorf("trie: unknown node kind %d", kind)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *node) hash() takamaka.Bytes32 {
	return takamaka.SHA256(n.encode())
}

// --- nibble path helpers ---

func keyToNibbles(key []byte) []byte {
	out := make([]byte, len(key)*2)
	for i, b := range key {
		out[i*2] = b >> 4
		out[i*2+1] = b & 0x0f
	}
	return out
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
