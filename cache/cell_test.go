package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellMemoizesUntilInvalidated(t *testing.T) {
	var c Cell
	calls := 0
	compute := func() interface{} {
		calls++
		return calls
	}

	v := c.GetOrCompute(compute)
	assert.Equal(t, 1, v)

	v = c.GetOrCompute(compute)
	assert.Equal(t, 1, v, "second call should return the memoized value without recomputing")
	assert.Equal(t, 1, calls)

	c.Invalidate()
	v = c.GetOrCompute(compute)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}
