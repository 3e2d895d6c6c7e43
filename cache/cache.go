// Package cache memoizes expensive drawing patterns (gradients, hatch
// tiles, marker stamps) keyed by a content signature.
//
// A Cache may be shared by any number of renderers. Lookups that hit take
// a read lock only; a miss runs the builder exactly once per key while
// concurrent callers for the same key wait for its result. Memory is
// bounded by an estimated byte budget and an entry cap, enforced by
// evicting the least recently used entries that no caller currently holds.
//
// Eviction is a performance policy only: builders must be idempotent so an
// evicted pattern can be rebuilt identically on the next request.
package cache

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Default budget.
const (
	DefaultMaxBytes   = 64 << 20
	DefaultMaxEntries = 4096
)

// Config bounds a cache. Zero fields take the defaults.
type Config struct {
	// MaxBytes is the estimated memory budget.
	MaxBytes int64
	// MaxEntries caps the number of entries.
	MaxEntries int
}

// Builder constructs the value for a key. It must be deterministic.
type Builder func() (any, error)

type entry struct {
	key   Key
	value any
	size  int64
	refs  atomic.Int32
	atime atomic.Int64
}

// Cache is a reference-counted LRU pattern cache. It is safe for
// concurrent use.
type Cache struct {
	cfg Config

	mu      sync.RWMutex
	entries map[Key]*entry
	bytes   atomic.Int64

	tick  atomic.Int64
	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	builds    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache with the given bounds.
func New(cfg Config) *Cache {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	return &Cache{cfg: cfg, entries: make(map[Key]*entry)}
}

// Config returns the effective bounds.
func (c *Cache) Config() Config { return c.cfg }

// Handle is a reference to a cached value. The value stays in the cache
// at least until Release is called.
type Handle struct {
	c        *Cache
	e        *entry
	released atomic.Bool
}

// Value returns the cached value.
func (h *Handle) Value() any { return h.e.value }

// Key returns the entry key.
func (h *Handle) Key() Key { return h.e.key }

// Release drops the reference. It is safe to call more than once.
func (h *Handle) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.e.refs.Add(-1) == 0 && h.c.overBudget() {
		h.c.mu.Lock()
		h.c.evictLocked()
		h.c.mu.Unlock()
	}
}

// Same reports whether two handles refer to the same cached value.
func (h *Handle) Same(o *Handle) bool {
	return h != nil && o != nil && h.e == o.e
}

// GetOrBuild returns a handle to the value for key, calling build on a
// miss. Concurrent misses for the same key share one build. Builder
// errors are returned to every waiting caller and are not cached.
func (c *Cache) GetOrBuild(key Key, build Builder) (*Handle, error) {
	if e := c.pin(key); e != nil {
		c.hits.Add(1)
		return &Handle{c: c, e: e}, nil
	}
	c.misses.Add(1)

	for {
		executed := false
		v, err, _ := c.group.Do(key.String(), func() (any, error) {
			executed = true
			// A flight for this key may have completed between pin and Do.
			if e := c.pin(key); e != nil {
				return e, nil
			}
			val, err := build()
			if err != nil {
				return nil, err
			}
			c.builds.Add(1)
			e := &entry{key: key, value: val, size: Estimate(key.Kind, val)}
			e.refs.Store(1)
			e.atime.Store(c.tick.Add(1))
			c.insert(e)
			return e, nil
		})
		if err != nil {
			return nil, err
		}
		if executed {
			return &Handle{c: c, e: v.(*entry)}, nil
		}
		// Waiters must take their reference under the lock. The builder
		// may already have released the entry and let it be evicted, in
		// which case the flight is repeated.
		if e := c.pin(key); e != nil {
			return &Handle{c: c, e: e}, nil
		}
	}
}

// pin looks key up and takes a reference under the read lock, so eviction
// (which needs the write lock) never sees a half-taken reference.
func (c *Cache) pin(key Key) *entry {
	c.mu.RLock()
	e := c.entries[key]
	if e != nil {
		e.refs.Add(1)
		e.atime.Store(c.tick.Add(1))
	}
	c.mu.RUnlock()
	return e
}

func (c *Cache) insert(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.key] = e
	c.bytes.Add(e.size)
	logger().Debug("pattern cached", "key", e.key.String(), "bytes", e.size)
	c.evictLocked()
}

func (c *Cache) overBudget() bool {
	if c.bytes.Load() > c.cfg.MaxBytes {
		return true
	}
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return n > c.cfg.MaxEntries
}

// evictLocked removes unreferenced entries, oldest access first, until the
// cache is within budget or only referenced entries remain.
func (c *Cache) evictLocked() {
	if c.bytes.Load() <= c.cfg.MaxBytes && len(c.entries) <= c.cfg.MaxEntries {
		return
	}
	victims := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.refs.Load() <= 0 {
			victims = append(victims, e)
		}
	}
	slices.SortFunc(victims, func(a, b *entry) int {
		return cmp.Compare(a.atime.Load(), b.atime.Load())
	})
	for _, e := range victims {
		if c.bytes.Load() <= c.cfg.MaxBytes && len(c.entries) <= c.cfg.MaxEntries {
			return
		}
		delete(c.entries, e.key)
		c.bytes.Add(-e.size)
		c.evictions.Add(1)
		logger().Debug("pattern evicted", "key", e.key.String(), "bytes", e.size)
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Bytes returns the estimated size of all entries.
func (c *Cache) Bytes() int64 { return c.bytes.Load() }

// Contains reports whether key is cached, without touching its recency.
func (c *Cache) Contains(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Purge removes every entry that is not referenced.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.refs.Load() <= 0 {
			delete(c.entries, k)
			c.bytes.Add(-e.size)
			c.evictions.Add(1)
		}
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Builds    uint64
	Evictions uint64
	Entries   int
	Bytes     int64
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Builds:    c.builds.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
		Bytes:     c.bytes.Load(),
	}
}

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

func logger() *slog.Logger { return loggerPtr.Load() }

// SetLogger sets the logger used for build and eviction diagnostics.
// plotgg.SetLogger propagates here.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}
