package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	hits, misses int64
}

func (c *counter) IncrementCacheHit()  { atomic.AddInt64(&c.hits, 1) }
func (c *counter) IncrementCacheMiss() { atomic.AddInt64(&c.misses, 1) }

type vec struct {
	A, B int
	Flag bool
}

func newTestCache(t *testing.T, ttl time.Duration, opts ...Option[vec, float64]) (*Cache[vec, float64], *time.Time) {
	t.Helper()
	c := NewCache[vec, float64](ttl, opts...)
	t.Cleanup(c.Close)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_GetSet(t *testing.T) {
	m := &counter{}
	c, _ := newTestCache(t, time.Minute, WithMetrics[vec, float64](m))

	_, ok := c.Get(vec{A: 1})
	assert.False(t, ok)

	c.Set(vec{A: 1}, 91.7)
	v, ok := c.Get(vec{A: 1})
	assert.True(t, ok)
	assert.Equal(t, 91.7, v)

	_, ok = c.Get(vec{A: 1, Flag: true})
	assert.False(t, ok, "distinct struct values are distinct keys")

	assert.Equal(t, int64(1), m.hits)
	assert.Equal(t, int64(2), m.misses)
}

func TestCache_Expiry(t *testing.T) {
	c, now := newTestCache(t, time.Minute)
	c.Set(vec{A: 1}, 1)

	*now = now.Add(2 * time.Minute)
	_, ok := c.Get(vec{A: 1})
	assert.False(t, ok)

	assert.Equal(t, 1, c.Stats()["expired_items"])
	c.DeleteExpired()
	assert.Equal(t, 0, c.Size())
}

func TestCache_MaxItemsEvictsOldest(t *testing.T) {
	c, now := newTestCache(t, time.Minute, WithMaxItems[vec, float64](2))

	c.Set(vec{A: 1}, 1)
	*now = now.Add(time.Second)
	c.Set(vec{A: 2}, 2)
	*now = now.Add(time.Second)
	c.Set(vec{A: 3}, 3)

	assert.Equal(t, 2, c.Size())
	_, ok := c.Get(vec{A: 1})
	assert.False(t, ok)
	_, ok = c.Get(vec{A: 3})
	assert.True(t, ok)

	// overwriting an existing key never evicts
	c.Set(vec{A: 3}, 30)
	assert.Equal(t, 2, c.Size())
}

func TestCache_GetOrCompute(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	calls := 0
	fn := func() float64 { calls++; return 54.7 }

	v, cached := c.GetOrCompute(vec{B: 2}, fn)
	assert.Equal(t, 54.7, v)
	assert.False(t, cached)

	v, cached = c.GetOrCompute(vec{B: 2}, fn)
	assert.Equal(t, 54.7, v)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)
}

func TestCache_ClearDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set(vec{A: 1}, 1)
	c.Set(vec{A: 2}, 2)

	c.Delete(vec{A: 1})
	assert.Equal(t, 1, c.Size())
	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache[int, int](time.Minute, WithMaxItems[int, int](64))
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i)
			c.Get(i)
			c.Stats()
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 64)
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := NewCache[int, int](time.Minute)
	c.Close()
	c.Close()
}
