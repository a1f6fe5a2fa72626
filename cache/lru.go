package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU extends golang-lru.Cache with hit/miss accounting. It backs the
// classloader's jar-resolution cache and the admission layer's signature-
// verification cache: both values become immutable the moment they are
// computed (a decoded jar for a committed classpath, a verify result for
// one exact signature), so plain least-recently-used eviction is safe and
// there is never a need to invalidate an entry early.
type LRU struct {
	*lru.Cache
	stats Stats
}

// NewLRU creates a LRU cache instance.
func NewLRU(maxSize int) *LRU {
	if maxSize < 16 {
		maxSize = 16
	}
	cache, _ := lru.New(maxSize)
	return &LRU{Cache: cache}
}

// Loader defines loader to load value.
type Loader func(key interface{}) (interface{}, error)

// GetOrLoad first tries to get from cache, loading and storing on miss.
func (l *LRU) GetOrLoad(key interface{}, loader Loader) (interface{}, error) {
	if v, ok := l.Get(key); ok {
		l.stats.Hit()
		return v, nil
	}
	l.stats.Miss()
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats reports whether the hit rate bucket changed since the last call,
// plus cumulative hit/miss counts. GetOrLoad is the only recorder; direct
// Get/Add calls bypass accounting.
func (l *LRU) Stats() (changed bool, hit, miss int64) {
	return l.stats.Stats()
}
