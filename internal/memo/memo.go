// Package memo provides a small in-memory cache with per-entry expiry.
//
// It exists to avoid repeating expensive, deterministic work --
// most notably re-rendering identical code snippets
// that appear on many pages of the same site.
package memo

import (
	"sync"
	"time"
)

// Cache maps keys to values for a bounded time.
// All methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration
	maxSize int

	now func() time.Time // override for tests
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// New builds a cache whose entries expire ttl after insertion.
// A non-positive ttl keeps entries forever.
// maxSize bounds the number of live entries;
// a non-positive maxSize leaves the cache unbounded.
func New[K comparable, V any](ttl time.Duration, maxSize int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the live value stored under k, if any.
// Expired entries are dropped on access.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return v, false
	}
	if c.expiredLocked(e) {
		delete(c.entries, k)
		return v, false
	}
	return e.value, true
}

// Put stores v under k, replacing any prior value.
// When the cache is full, the oldest entry makes room.
func (c *Cache[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[k]; !ok && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[k] = entry[V]{value: v, storedAt: c.now()}
}

// Len reports the number of stored entries, including any not yet
// dropped after expiry.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) expiredLocked(e entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl
}

func (c *Cache[K, V]) evictOldestLocked() {
	var (
		oldest K
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.storedAt.Before(c.entries[oldest].storedAt) {
			oldest, found = k, true
		}
	}
	if found {
		delete(c.entries, oldest)
	}
}
