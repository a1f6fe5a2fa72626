// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marshal

import (
	"bytes"

	"github.com/takamaka/node/takamaka"
)

// WriteHistory encodes owner's history into a standalone byte slice, for
// callers (store.Store) that persist it directly rather than composing it
// into a larger stream.
func WriteHistory(owner takamaka.StorageRef, history []takamaka.Bytes32) []byte {
	var buf bytes.Buffer
	NewWriter(&buf).WriteHistory(owner, history)
	return buf.Bytes()
}

// ReadHistory decodes a history previously produced by the standalone
// WriteHistory.
func ReadHistory(owner takamaka.StorageRef, data []byte) ([]takamaka.Bytes32, error) {
	r := NewReader(bytes.NewReader(data))
	history := r.ReadHistory(owner)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// WriteHistory writes a storage object's history (most-recent-first list of
// transaction references) with the last entry elided, per §4.D: the last
// entry always equals owner.TxRef and implementers must replicate the
// space optimization bit-exactly.
func (w *Writer) WriteHistory(owner takamaka.StorageRef, history []takamaka.Bytes32) {
	n := len(history)
	if n == 0 || history[n-1] != owner.TxRef {
		// nothing to elide, or caller passed a malformed history; still
		// encode faithfully rather than silently dropping data.
		w.CompactInt(n)
		for _, h := range history {
			w.Bytes(h.Bytes())
		}
		return
	}
	w.CompactInt(n - 1)
	for _, h := range history[:n-1] {
		w.Bytes(h.Bytes())
	}
}

// ReadHistory reads back a history written by WriteHistory, reinstating the
// elided final entry (owner.TxRef).
func (r *Reader) ReadHistory(owner takamaka.StorageRef) []takamaka.Bytes32 {
	n := r.CompactInt()
	if n < 0 {
		return nil
	}
	out := make([]takamaka.Bytes32, 0, n+1)
	for i := 0; i < n; i++ {
		var h takamaka.Bytes32
		copy(h[:], r.Bytes(32))
		out = append(out, h)
		if r.err != nil {
			return out
		}
	}
	out = append(out, owner.TxRef)
	return out
}
