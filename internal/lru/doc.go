// Package lru provides a small thread-safe least-recently-used cache with
// a hard entry limit.
//
// It backs per-process memo tables such as glyph outlines, where values are
// cheap to rebuild and never shared by reference count. Shared,
// budget-accounted patterns live in the top-level cache package instead.
//
//	c := lru.New[string, int](128)
//	c.Put("a", 1)
//	v, ok := c.Get("a")
package lru
