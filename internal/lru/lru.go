package lru

import "sync"

// Cache is a thread-safe LRU map holding at most Cap entries. A Cap of zero
// or less means unbounded.
//
// Cache must not be copied after first use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	entries map[K]*node[K, V]
	order   list[K, V]

	hits, misses uint64
}

// New returns an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{cap: capacity, entries: make(map[K]*node[K, V])}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	nd, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.touch(nd)
	return nd.value, true
}

// Put stores value under key, evicting the oldest entry when full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, value)
}

func (c *Cache[K, V]) putLocked(key K, value V) {
	if nd, ok := c.entries[key]; ok {
		nd.value = value
		c.order.touch(nd)
		return
	}
	nd := &node[K, V]{key: key, value: value}
	c.entries[key] = nd
	c.order.pushFront(nd)
	for c.cap > 0 && c.order.n > c.cap {
		old := c.order.back
		c.order.unlink(old)
		delete(c.entries, old.key)
	}
}

// GetOrCreate returns the cached value for key or stores the result of
// create. Errors from create are returned and not cached. create runs
// under the cache lock and must not call back into c.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if nd, ok := c.entries[key]; ok {
		c.hits++
		c.order.touch(nd)
		return nd.value, nil
	}
	c.misses++
	v, err := create()
	if err != nil {
		return v, err
	}
	c.putLocked(key, v)
	return v, nil
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.n
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
}

// Stats returns the hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
