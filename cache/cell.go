package cache

import "sync"

// Cell memoizes a single computed value until explicitly invalidated —
// the consensus-parameter cache shape: the value (the white-listing
// table, the storage-permitted-types table) is rebuilt from consensus
// parameters that only ever change on the rare write that updates them,
// not on every transaction that reads them.
type Cell struct {
	mu    sync.Mutex
	value interface{}
	valid bool
}

// GetOrCompute returns the memoized value, computing and storing it on
// first use or after the most recent Invalidate.
func (c *Cell) GetOrCompute(compute func() interface{}) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		c.value = compute()
		c.valid = true
	}
	return c.value
}

// Invalidate discards the memoized value, forcing the next GetOrCompute
// to recompute it.
func (c *Cell) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.value = nil
}
