// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

// Apply stages the triple a non-rejected Result commits into st: the
// request (for get_request and dependency resolution), the response (for
// get_response) and the per-object history update (§4.D). A Rejected
// result is never written, per §4.H. These writes are trie-dirty until a
// later st.Commit() — one store-level write transaction covers however
// many transactions a batch/block groups together (§5).
func Apply(st *store.Store, txRef takamaka.Bytes32, req request.Request, resp response.Response) error {
	if err := st.PutRequest(txRef, req); err != nil {
		return err
	}
	if err := st.PutResponse(txRef, resp); err != nil {
		return err
	}
	return recordHistories(st, txRef, resp)
}

// recordHistories prepends txRef to the history of every storage
// reference resp.Updates() touches, most-recent-first, matching the
// deserializer's newest-to-oldest scan (§4.D, §4.I).
func recordHistories(st *store.Store, txRef takamaka.Bytes32, resp response.Response) error {
	var order []takamaka.StorageRef
	seen := make(map[takamaka.StorageRef]bool)
	for _, u := range resp.Updates() {
		ref := u.Object()
		if seen[ref] {
			continue
		}
		seen[ref] = true
		order = append(order, ref)
	}

	for _, ref := range order {
		existing, _, err := st.GetHistory(ref)
		if err != nil {
			return err
		}
		history := append([]takamaka.Bytes32{txRef}, existing...)
		if err := st.PutHistory(ref, history); err != nil {
			return err
		}
	}
	return nil
}
