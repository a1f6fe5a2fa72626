// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime implements the response builders of §4.H: the
// transaction state machine that turns a request into a response, wiring
// together the store, the class loader, the verifier, the instrumenter
// and the deserializer/updates extractor for every transaction kind.
package runtime

import (
	"github.com/takamaka/node/cache"
	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/instrumenter"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/verifier"
)

// jarCacheSize and sigCacheSize bound the per-node jar-resolution and
// signature-verification caches (§4.J); both hold entries that are safe
// to keep for the life of the process, so the only reason to bound them
// is memory, not correctness.
const (
	jarCacheSize = 256
	sigCacheSize = 4096
)

// Consensus bundles the chain-wide parameters that gate or classify
// transaction behavior (§4.J's "consensus-parameter cache": the tables
// derived from it are memoized until Context.InvalidateConsensusCache).
type Consensus struct {
	ChainID          string
	Signature        crypto.Scheme
	AllowSelfCharged bool
	MaxGasPerView    uint64

	// WhiteListedTargets names call/field/constructor targets permitted
	// outside the installed classpath, in "Class.member" or bare "Class"
	// form (§4.E).
	WhiteListedTargets []string
	// StoragePermittedTypes names additional (beyond the built-in eager
	// primitive/String/BigInteger types) class names permitted as the
	// declared type of a persistent field.
	StoragePermittedTypes []string
}

// Context is the per-node configuration every response builder runs
// against: the node store, the consensus parameters and the gas cost
// model (§4.F, §4.J).
type Context struct {
	Store     *store.Store
	Consensus Consensus
	CostModel instrumenter.CostModel

	// jarCache memoizes classpath -> decoded jar resolution across
	// transactions (runtime/jarsource.go); sigCache memoizes caller
	// signature verification across transactions (runtime/admission.go).
	jarCache *cache.LRU
	sigCache *cache.LRU

	// whiteListCell and storageTypesCell memoize the tables built from
	// Consensus until InvalidateConsensusCache is called.
	whiteListCell    cache.Cell
	storageTypesCell cache.Cell
}

// NewContext builds a Context over st with the given consensus parameters
// and cost model.
func NewContext(st *store.Store, consensus Consensus, costModel instrumenter.CostModel) *Context {
	return &Context{
		Store:     st,
		Consensus: consensus,
		CostModel: costModel,
		jarCache:  cache.NewLRU(jarCacheSize),
		sigCache:  cache.NewLRU(sigCacheSize),
	}
}

// InvalidateConsensusCache discards the memoized white-list and storage-
// types tables; callers must invoke it whenever Consensus is mutated in
// place (the single write path the §4.J consensus-parameter cache exists
// to guard against).
func (c *Context) InvalidateConsensusCache() {
	c.whiteListCell.Invalidate()
	c.storageTypesCell.Invalidate()
}

func (c *Context) whiteList() verifier.WhiteList {
	return c.whiteListCell.GetOrCompute(func() interface{} {
		return newStaticWhiteList(c.Consensus.WhiteListedTargets)
	}).(verifier.WhiteList)
}

func (c *Context) storageTypes() verifier.StorageTypes {
	return c.storageTypesCell.GetOrCompute(func() interface{} {
		return newStaticStorageTypes(c.Consensus.StoragePermittedTypes)
	}).(verifier.StorageTypes)
}

func (c *Context) verifierOptions() verifier.Options {
	return verifier.Options{AllowSelfCharged: c.Consensus.AllowSelfCharged}
}
