// Package cache provides a generic, thread-safe LRU cache with metrics.
// The terser uses it to memoize compiled path specs, which repeat heavily
// across messages in interface traffic.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Cache is a generic thread-safe LRU cache. When full, the least
// recently used entry is evicted.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]*node[K, V]
	order    *list.List
	capacity int

	// Metrics (lock-free using atomics)
	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
	sets   atomic.Uint64
}

// node holds a cached value and its position in the LRU list.
type node[K comparable, V any] struct {
	value   V
	element *list.Element
}

// New creates a Cache with the specified capacity. A non-positive
// capacity defaults to 128.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = 128
	}
	return &Cache[K, V]{
		entries:  make(map[K]*node[K, V], capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.MoveToFront(n.element)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return n.value, true
}

// Set adds or updates a value, evicting the least recently used entry
// when at capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	c.sets.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// set inserts or updates without locking. Must be called with mu held.
func (c *Cache[K, V]) set(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.MoveToFront(n.element)
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.entries[key] = &node[K, V]{
		value:   value,
		element: c.order.PushFront(key),
	}
}

// evictOldest removes the least recently used entry. Must be called with
// mu held.
func (c *Cache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	delete(c.entries, oldest.Value.(K))
	c.order.Remove(oldest)
	c.evicts.Add(1)
}

// GetOrSet returns the cached value for key, or computes it with fn,
// stores it, and returns it. The computation is atomic with respect to
// the cache.
func (c *Cache[K, V]) GetOrSet(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock
	if n, ok := c.entries[key]; ok {
		c.order.MoveToFront(n.element)
		return n.value
	}

	value := fn()
	c.set(key, value)
	c.sets.Add(1)
	return value
}

// Delete removes an entry from the cache.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.order.Remove(n.element)
	}
}

// Len returns the current number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V], c.capacity)
	c.order.Init()
}

// Stats holds point-in-time cache statistics.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
	Sets     uint64
	HitRate  float64
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:     size,
		Capacity: c.capacity,
		Hits:     hits,
		Misses:   misses,
		Evicts:   c.evicts.Load(),
		Sets:     c.sets.Load(),
		HitRate:  hitRate,
	}
}
