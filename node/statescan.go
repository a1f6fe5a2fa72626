// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/takamaka/node/cache"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

// DefaultClassTagCacheSize bounds a backend's class-tag cache; callers
// may build their own NewClassTagCache with a different limit.
const DefaultClassTagCacheSize = 1024

// ClassTagCache memoizes get_class_tag results by storage reference,
// ranking entries by access frequency rather than recency: a class tag
// never changes once an object is created (§4.B), so there is never a
// reason to evict an entry except to bound memory, and the entries worth
// keeping are the ones repeatedly queried (e.g. the manifest).
type ClassTagCache struct {
	inner *cache.PrioCache
}

// NewClassTagCache builds a class-tag cache holding up to limit entries.
func NewClassTagCache(limit int) *ClassTagCache {
	return &ClassTagCache{inner: cache.NewPrioCache(limit)}
}

func (c *ClassTagCache) get(ref takamaka.StorageRef) (takamaka.ClassTag, bool) {
	v, priority, ok := c.inner.Get(ref)
	if !ok {
		return takamaka.ClassTag{}, false
	}
	c.inner.Set(ref, v, priority+1)
	return v.(takamaka.ClassTag), true
}

func (c *ClassTagCache) put(ref takamaka.StorageRef, tag takamaka.ClassTag) {
	c.inner.Set(ref, tag, 1)
}

// ClassTagFromHistory implements get_class_tag (§6) as a raw scan of
// ref's history for its ClassTagUpdate, consulting and then populating
// tags first — the same simplification GetStateFromHistory makes, and
// for the same reason: the contract is exactly what a history scan
// already produces, with no need for a class-loader-backed deserializer.
func ClassTagFromHistory(st *store.Store, tags *ClassTagCache, ref takamaka.StorageRef) (takamaka.ClassTag, bool, error) {
	if tags != nil {
		if tag, ok := tags.get(ref); ok {
			return tag, true, nil
		}
	}

	history, ok, err := st.GetHistory(ref)
	if err != nil || !ok {
		return takamaka.ClassTag{}, false, err
	}
	for _, txRef := range history {
		resp, ok, err := st.GetResponse(txRef)
		if err != nil {
			return takamaka.ClassTag{}, false, err
		}
		if !ok {
			continue
		}
		for _, u := range resp.Updates() {
			if u.Object() != ref {
				continue
			}
			if ct, isTag := u.(takamaka.ClassTagUpdate); isTag {
				if tags != nil {
					tags.put(ref, ct.Tag)
				}
				return ct.Tag, true, nil
			}
		}
	}
	return takamaka.ClassTag{}, false, nil
}

// GetStateFromHistory implements get_state (§6) as a raw scan of ref's
// history, keeping the first class-tag update seen and the newest update
// per field signature.
func GetStateFromHistory(st *store.Store, ref takamaka.StorageRef) ([]takamaka.Update, error) {
	history, ok, err := st.GetHistory(ref)
	if err != nil || !ok {
		return nil, err
	}

	seen := make(map[takamaka.FieldSignature]bool)
	var sawTag bool
	var out []takamaka.Update

	for _, txRef := range history {
		resp, ok, err := st.GetResponse(txRef)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, u := range resp.Updates() {
			if u.Object() != ref {
				continue
			}
			if _, isTag := u.(takamaka.ClassTagUpdate); isTag {
				if sawTag {
					continue
				}
				sawTag = true
				out = append(out, u)
				continue
			}
			f := u.Field()
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, u)
		}
	}
	return out, nil
}
