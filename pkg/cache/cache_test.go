package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string, int](10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("seoul", 1)
	v, ok := c.Get("seoul")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, c.Count())
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTLCache[string, string](2, time.Minute)
	c.Set("a", "A")
	c.Set("b", "B")

	// touch a so b becomes the eviction candidate
	_, _ = c.Get("a")
	c.Set("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Count())
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache[string, int](10, 20*time.Millisecond)
	c.Set("k", 1)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestTTLCacheUnbounded(t *testing.T) {
	c := NewTTLCache[int, int](0, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}
	assert.Equal(t, 5, c.Count())
}
