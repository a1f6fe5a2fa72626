// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store is the node store of §4.D: it composes three tries
// (responses, histories, info) over a single transactional kv.Store and
// exposes the merged root that is the engine's authenticated state
// commitment.
package store

import (
	"fmt"

	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/marshal"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/trie"
)

// Info tags: single-byte keys into the trie of info (§4.D).
const (
	InfoTagTakamakaCode  byte = 0
	InfoTagManifest      byte = 1
	InfoTagGamete        byte = 2
	InfoTagCommitCount   byte = 3
	InfoTagConsensusPars byte = 4
)

// MergedRoot is the concatenation of the three component roots: the
// authenticated state commitment emitted per block (§4.D, §9 glossary).
type MergedRoot struct {
	Responses takamaka.Bytes32
	Histories takamaka.Bytes32
	Info      takamaka.Bytes32
}

// Bytes renders the merged root as the 96-byte wire form.
func (m MergedRoot) Bytes() []byte {
	out := make([]byte, 0, 96)
	out = append(out, m.Responses.Bytes()...)
	out = append(out, m.Histories.Bytes()...)
	out = append(out, m.Info.Bytes()...)
	return out
}

// ParseMergedRoot splits a 96-byte merged root into its three components.
func ParseMergedRoot(b []byte) (MergedRoot, error) {
	if len(b) != 96 {
		return MergedRoot{}, fmt.Errorf("store: merged root must be 96 bytes, got %d", len(b))
	}
	var m MergedRoot
	copy(m.Responses[:], b[0:32])
	copy(m.Histories[:], b[32:64])
	copy(m.Info[:], b[64:96])
	return m, nil
}

// Store is the node store: the sole shared mutable resource writers
// serialize on via a single store-level commit (§4.D, §5).
type Store struct {
	kv             kv.Store
	responses      *trie.Trie
	histories      *trie.Trie
	info           *trie.Trie
	checkableDepth int
	epoch          uint32

	// retained holds the merged roots of the last checkableDepth+1 commits
	// (including the current one), the set GarbageCollect treats as
	// reachable regardless of node age.
	retained []MergedRoot
}

// New opens an empty store (epoch 0) over backing.
func New(backing kv.Store, checkableDepth int) *Store {
	return &Store{
		kv:             backing,
		responses:      trie.New(takamaka.Bytes32{}, backing),
		histories:      trie.New(takamaka.Bytes32{}, backing),
		info:           trie.New(takamaka.Bytes32{}, backing),
		checkableDepth: checkableDepth,
	}
}

// Checkout reopens the store at a previously committed merged root and
// epoch, splitting it into the three component roots (§4.D). The caller is
// then viewing historical state: writes to it behave normally (copy on
// write) but it shares node storage with every other Store over the same
// backing.
func Checkout(backing kv.Store, merged MergedRoot, checkableDepth int, epoch uint32) *Store {
	return &Store{
		kv:             backing,
		responses:      trie.New(merged.Responses, backing),
		histories:      trie.New(merged.Histories, backing),
		info:           trie.New(merged.Info, backing),
		checkableDepth: checkableDepth,
		epoch:          epoch,
		retained:       []MergedRoot{merged},
	}
}

// MergedRoot returns the current (uncommitted-safe) merged root.
func (s *Store) MergedRoot() MergedRoot {
	responses, _ := s.responses.Root()
	histories, _ := s.histories.Root()
	info, _ := s.info.Root()
	return MergedRoot{Responses: responses, Histories: histories, Info: info}
}

// Epoch returns the commit number of the last successful Commit.
func (s *Store) Epoch() uint32 {
	return s.epoch
}

// GetResponse looks up the response persisted for a transaction reference.
// Per §4.H, a TransactionRejected outcome is never written here.
func (s *Store) GetResponse(txRef takamaka.Bytes32) (response.Response, bool, error) {
	raw, ok, err := s.responses.Get(txRef.Bytes())
	if err != nil || !ok {
		return nil, ok, err
	}
	resp, err := response.Decode(raw)
	if err != nil {
		return nil, false, err
	}
	return resp, true, nil
}

// PutResponse persists resp under txRef.
func (s *Store) PutResponse(txRef takamaka.Bytes32, resp response.Response) error {
	raw, err := response.Encode(resp)
	if err != nil {
		return err
	}
	return s.responses.Put(txRef.Bytes(), raw)
}

// requestKey namespaces request bytes outside of the three authenticated
// tries: a request's transaction reference already is the hash of its own
// canonical encoding (§3), so storing it needs no separate Merkle
// authentication — a plain content-addressed KV entry suffices, and is
// never part of the merged root.
func requestKey(txRef takamaka.Bytes32) []byte {
	return append([]byte("req/"), txRef.Bytes()...)
}

// PutRequest persists the request that produced txRef, for get_request and
// for the class loader's dependency resolution over jar-store requests.
func (s *Store) PutRequest(txRef takamaka.Bytes32, req request.Request) error {
	raw, err := request.Encode(req)
	if err != nil {
		return err
	}
	return s.kv.Put(requestKey(txRef), raw)
}

// GetRequest looks up the request that produced txRef.
func (s *Store) GetRequest(txRef takamaka.Bytes32) (request.Request, bool, error) {
	raw, err := s.kv.Get(requestKey(txRef))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	req, err := request.Decode(raw)
	if err != nil {
		return nil, false, err
	}
	return req, true, nil
}

// GetHistory returns the transaction references that ever updated owner,
// most recent first, reconstructing the elided last entry (§4.D).
func (s *Store) GetHistory(owner takamaka.StorageRef) ([]takamaka.Bytes32, bool, error) {
	raw, ok, err := s.histories.Get(owner.TxRef.Bytes())
	if err != nil || !ok {
		return nil, ok, err
	}
	history, err := marshal.ReadHistory(owner, raw)
	if err != nil {
		return nil, false, err
	}
	return history, true, nil
}

// PutHistory persists owner's history, eliding the last entry per §4.D.
func (s *Store) PutHistory(owner takamaka.StorageRef, history []takamaka.Bytes32) error {
	raw := marshal.WriteHistory(owner, history)
	return s.histories.Put(owner.TxRef.Bytes(), raw)
}

// GetClassTagSource reports whether the storage reference has ever been
// written (its history is non-empty); callers combine this with
// GetHistory's first entry and a deserialized ClassTag update to answer
// get_class_tag requests.
func (s *Store) GetClassTagSource(owner takamaka.StorageRef) (takamaka.Bytes32, bool, error) {
	history, ok, err := s.GetHistory(owner)
	if err != nil || !ok || len(history) == 0 {
		return takamaka.Bytes32{}, false, err
	}
	return history[len(history)-1], true, nil
}

// GetInfo reads a small control value keyed by a single-byte tag.
func (s *Store) GetInfo(tag byte) ([]byte, bool, error) {
	return s.info.Get([]byte{tag})
}

// PutInfo writes a small control value keyed by a single-byte tag.
func (s *Store) PutInfo(tag byte, value []byte) error {
	return s.info.Put([]byte{tag}, value)
}

// GetTakamakaCode, GetManifest and GetGamete read the three well-known
// info-trie slots used to answer the corresponding Node API calls.
func (s *Store) GetTakamakaCode() (takamaka.Bytes32, bool, error) {
	return s.getInfoRef(InfoTagTakamakaCode)
}

func (s *Store) GetManifest() (takamaka.StorageRef, bool, error) {
	return s.getInfoStorageRef(InfoTagManifest)
}

func (s *Store) GetGamete() (takamaka.StorageRef, bool, error) {
	return s.getInfoStorageRef(InfoTagGamete)
}

// PutManifest and PutGamete write the corresponding well-known info-trie slot.
func (s *Store) PutManifest(ref takamaka.StorageRef) error {
	return s.PutInfo(InfoTagManifest, marshal.EncodeStorageRef(ref))
}

func (s *Store) PutGamete(ref takamaka.StorageRef) error {
	return s.PutInfo(InfoTagGamete, marshal.EncodeStorageRef(ref))
}

// PutTakamakaCode writes the classpath jar's transaction reference.
func (s *Store) PutTakamakaCode(txRef takamaka.Bytes32) error {
	return s.PutInfo(InfoTagTakamakaCode, txRef.Bytes())
}

func (s *Store) getInfoRef(tag byte) (takamaka.Bytes32, bool, error) {
	raw, ok, err := s.GetInfo(tag)
	if err != nil || !ok {
		return takamaka.Bytes32{}, ok, err
	}
	return takamaka.BytesToBytes32(raw), true, nil
}

func (s *Store) getInfoStorageRef(tag byte) (takamaka.StorageRef, bool, error) {
	raw, ok, err := s.GetInfo(tag)
	if err != nil || !ok {
		return takamaka.StorageRef{}, ok, err
	}
	ref, err := marshal.DecodeStorageRef(raw)
	if err != nil {
		return takamaka.StorageRef{}, false, err
	}
	return ref, true, nil
}

// Commit flushes every trie's staged nodes in a single atomic batch,
// advances the epoch, records the resulting merged root for retention, and
// runs garbage collection when the store's checkable_depth policy allows it
// (§4.C, §5: "writers acquire a single store-level write transaction per
// commit").
func (s *Store) Commit() (MergedRoot, error) {
	batch := s.kv.NewBatch()
	s.epoch++

	responsesRoot, _, err := s.responses.Commit(batch, s.epoch)
	if err != nil {
		return MergedRoot{}, err
	}
	historiesRoot, _, err := s.histories.Commit(batch, s.epoch)
	if err != nil {
		return MergedRoot{}, err
	}
	infoRoot, _, err := s.info.Commit(batch, s.epoch)
	if err != nil {
		return MergedRoot{}, err
	}

	if err := batch.Commit(); err != nil {
		return MergedRoot{}, err
	}

	merged := MergedRoot{Responses: responsesRoot, Histories: historiesRoot, Info: infoRoot}
	s.retained = append(s.retained, merged)
	if s.checkableDepth >= 0 && len(s.retained) > s.checkableDepth+1 {
		s.retained = s.retained[len(s.retained)-(s.checkableDepth+1):]
	}

	if err := s.garbageCollect(); err != nil {
		return MergedRoot{}, err
	}
	return merged, nil
}

func (s *Store) garbageCollect() error {
	if s.checkableDepth < 0 {
		return nil
	}
	responsesRoots := make([]takamaka.Bytes32, len(s.retained))
	historiesRoots := make([]takamaka.Bytes32, len(s.retained))
	infoRoots := make([]takamaka.Bytes32, len(s.retained))
	for i, m := range s.retained {
		responsesRoots[i] = m.Responses
		historiesRoots[i] = m.Histories
		infoRoots[i] = m.Info
	}
	if err := trie.GarbageCollect(s.kv, responsesRoots, s.checkableDepth, s.epoch); err != nil {
		return err
	}
	if err := trie.GarbageCollect(s.kv, historiesRoots, s.checkableDepth, s.epoch); err != nil {
		return err
	}
	return trie.GarbageCollect(s.kv, infoRoots, s.checkableDepth, s.epoch)
}
