package lru

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestEvictsOldest(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s evicted", k)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestPutUpdates(t *testing.T) {
	c := New[int, string](4)
	c.Put(1, "x")
	c.Put(1, "y")
	if v, _ := c.Get(1); v != "y" || c.Len() != 1 {
		t.Errorf("got %q len %d", v, c.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := New[int, int](0)
	calls := 0
	create := func() (int, error) { calls++; return 7, nil }
	for range 3 {
		v, err := c.GetOrCreate(1, create)
		if err != nil || v != 7 {
			t.Fatalf("got %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times", calls)
	}

	bad := errors.New("bad")
	if _, err := c.GetOrCreate(2, func() (int, error) { return 0, bad }); !errors.Is(err, bad) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get(2); ok {
		t.Error("failed create was cached")
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 3 {
		t.Errorf("stats = %d/%d", hits, misses)
	}
}

func TestConcurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := fmt.Sprint(i % 32)
				c.Put(k, g)
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len = %d over capacity", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear left entries")
	}
}
