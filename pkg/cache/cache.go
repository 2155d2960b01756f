// Package cache provides bounded, expiring caches for upstream lookups that
// change slowly, such as place coordinates and daily exchange rates.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TTLCache is a thread-safe LRU cache whose entries expire after a fixed TTL.
type TTLCache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewTTLCache creates a cache holding at most maxItems entries for ttl each.
// A non-positive maxItems means no size bound.
func NewTTLCache[K comparable, V any](maxItems int, ttl time.Duration) *TTLCache[K, V] {
	if maxItems < 0 {
		maxItems = 0
	}
	return &TTLCache[K, V]{
		lru: expirable.NewLRU[K, V](maxItems, nil, ttl),
	}
}

// Get retrieves a value from the cache if it exists and hasn't expired
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set adds a value to the cache, evicting the least recently used entry when full.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Count returns the number of live items in the cache
func (c *TTLCache[K, V]) Count() int {
	return c.lru.Len()
}
