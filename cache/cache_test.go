package cache

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tile struct{ w, h int }

func (t tile) PixelArea() int { return t.w * t.h }

func tileKey(i int) Key {
	return NewKey(KindTile).Int(int64(i)).Key()
}

func TestBuildOnceUnderConcurrency(t *testing.T) {
	c := New(Config{})
	key := NewKey(KindLinearGradient).Float(0.5, QuantumOffset).Key()

	var calls atomic.Int32
	start := make(chan struct{})
	release := make(chan struct{})
	const n = 32
	handles := make([]*Handle, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			h, err := c.GetOrBuild(key, func() (any, error) {
				calls.Add(1)
				<-release
				return &tile{w: 4, h: 4}, nil
			})
			assert.NoError(t, err)
			handles[i] = h
		}()
	}
	close(start)
	// Give the goroutines a chance to queue behind the first builder.
	for calls.Load() == 0 {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "builder invocations")
	for _, h := range handles {
		require.NotNil(t, h)
		assert.True(t, h.Same(handles[0]), "handles must share one value")
		assert.Same(t, handles[0].Value(), h.Value())
	}
	assert.Equal(t, int32(n), handles[0].e.refs.Load())
	for _, h := range handles {
		h.Release()
	}
	assert.Equal(t, int32(0), handles[0].e.refs.Load())
}

func TestHitReturnsSameHandleValue(t *testing.T) {
	c := New(Config{})
	key := tileKey(1)
	builds := 0
	build := func() (any, error) {
		builds++
		return &tile{w: 2, h: 2}, nil
	}
	h1, err := c.GetOrBuild(key, build)
	require.NoError(t, err)
	h1.Release()
	h2, err := c.GetOrBuild(key, build)
	require.NoError(t, err)
	defer h2.Release()

	assert.Equal(t, 1, builds)
	assert.True(t, h1.Same(h2))
	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.InDelta(t, 0.5, st.HitRate(), 1e-9)
}

func TestBudgetInvariant(t *testing.T) {
	// Each tile costs 64 + 4*100 = 464 bytes; the budget fits two.
	c := New(Config{MaxBytes: 1000})
	for i := range 20 {
		h, err := c.GetOrBuild(tileKey(i), func() (any, error) { return tile{10, 10}, nil })
		require.NoError(t, err)
		h.Release()
		assert.LessOrEqual(t, c.Bytes(), int64(1000), "after insert %d", i)
	}
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains(tileKey(19)))
	assert.True(t, c.Contains(tileKey(18)))
	assert.False(t, c.Contains(tileKey(0)))
}

func TestReferencedEntriesAreNotEvicted(t *testing.T) {
	c := New(Config{MaxBytes: 1000})
	var held []*Handle
	for i := range 4 {
		h, err := c.GetOrBuild(tileKey(i), func() (any, error) { return tile{10, 10}, nil })
		require.NoError(t, err)
		held = append(held, h)
	}
	// Over budget, but everything is referenced.
	assert.Equal(t, 4, c.Len())
	assert.Greater(t, c.Bytes(), int64(1000))

	for _, h := range held {
		h.Release()
	}
	assert.LessOrEqual(t, c.Bytes(), int64(1000))
	assert.Equal(t, uint64(2), c.Stats().Evictions)
}

func TestSharedBuildWaitersHoldLiveEntries(t *testing.T) {
	c := New(Config{MaxEntries: 1})
	pinned, err := c.GetOrBuild(tileKey(-1), func() (any, error) { return tile{1, 1}, nil })
	require.NoError(t, err)
	defer pinned.Release()

	const workers, rounds = 8, 200
	var detached atomic.Int32
	for r := range rounds {
		key := tileKey(r)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				h, err := c.GetOrBuild(key, func() (any, error) {
					runtime.Gosched()
					return tile{2, 2}, nil
				})
				if !assert.NoError(t, err) {
					return
				}
				// Every live handle keeps its entry in the cache.
				if !c.Contains(key) {
					detached.Add(1)
				}
				h.Release()
			}()
		}
		close(start)
		wg.Wait()
	}

	assert.Zero(t, detached.Load(), "handles whose entry was evicted while held")
	assert.True(t, c.Contains(tileKey(-1)))
	assert.GreaterOrEqual(t, c.Stats().Builds, uint64(rounds+1))
}

func TestEntryCap(t *testing.T) {
	c := New(Config{MaxEntries: 3})
	for i := range 10 {
		h, err := c.GetOrBuild(NewKey(KindSolid).Int(int64(i)).Key(), func() (any, error) { return i, nil })
		require.NoError(t, err)
		h.Release()
	}
	assert.Equal(t, 3, c.Len())
}

func TestLRUOrder(t *testing.T) {
	c := New(Config{MaxBytes: 1000})
	get := func(i int) {
		h, err := c.GetOrBuild(tileKey(i), func() (any, error) { return tile{10, 10}, nil })
		require.NoError(t, err)
		h.Release()
	}
	get(0)
	get(1)
	get(0) // 1 is now least recently used
	get(2)
	assert.True(t, c.Contains(tileKey(0)))
	assert.False(t, c.Contains(tileKey(1)))
	assert.True(t, c.Contains(tileKey(2)))
}

func TestRebuildAfterEviction(t *testing.T) {
	c := New(Config{MaxBytes: 500})
	builds := 0
	build := func() (any, error) {
		builds++
		return tile{10, 10}, nil
	}
	h, err := c.GetOrBuild(tileKey(0), build)
	require.NoError(t, err)
	h.Release()
	h, err = c.GetOrBuild(tileKey(1), build)
	require.NoError(t, err)
	h.Release()
	require.False(t, c.Contains(tileKey(0)))

	h, err = c.GetOrBuild(tileKey(0), build)
	require.NoError(t, err)
	defer h.Release()
	assert.Equal(t, tile{10, 10}, h.Value())
	assert.Equal(t, 3, builds)
}

func TestBuilderErrorIsNotCached(t *testing.T) {
	c := New(Config{})
	boom := errors.New("boom")
	_, err := c.GetOrBuild(tileKey(0), func() (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	h, err := c.GetOrBuild(tileKey(0), func() (any, error) { return tile{1, 1}, nil })
	require.NoError(t, err)
	h.Release()
	assert.Equal(t, 1, c.Len())
}

func TestReleaseIsIdempotent(t *testing.T) {
	c := New(Config{})
	h, err := c.GetOrBuild(tileKey(0), func() (any, error) { return tile{1, 1}, nil })
	require.NoError(t, err)
	h.Release()
	h.Release()
	assert.Equal(t, int32(0), h.e.refs.Load())
}

func TestPurgeKeepsReferenced(t *testing.T) {
	c := New(Config{})
	h0, _ := c.GetOrBuild(tileKey(0), func() (any, error) { return tile{1, 1}, nil })
	h1, _ := c.GetOrBuild(tileKey(1), func() (any, error) { return tile{1, 1}, nil })
	h1.Release()
	c.Purge()
	assert.True(t, c.Contains(tileKey(0)))
	assert.False(t, c.Contains(tileKey(1)))
	h0.Release()
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		v    any
		want int64
	}{
		{"solid", KindSolid, 42, 0},
		{"gradient", KindLinearGradient, stops(3), 64 + 3*40},
		{"hatch", KindHatch, tile{72, 72}, 64 + 4*72*72},
		{"marker", KindMarker, tile{10, 10}, 128 + 100},
		{"unknown shape", KindTile, "x", 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.kind, tt.v))
		})
	}
}

type stops int

func (s stops) StopCount() int { return int(s) }
