package cache

import (
	"sync"
	"time"
)

// Metrics receives hit/miss counts
type Metrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

// CacheItem represents a cached value with expiration
type CacheItem[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// IsExpired checks if the cache item has expired at now
func (c *CacheItem[V]) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Cache is a thread-safe TTL cache. Keys must be comparable, which lets
// scoring results be keyed by the feature vector itself.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]*CacheItem[V]
	ttl      time.Duration
	maxItems int
	metrics  Metrics
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Cache
type Option[K comparable, V any] func(*Cache[K, V])

// WithMaxItems bounds the cache size; zero means unbounded
func WithMaxItems[K comparable, V any](n int) Option[K, V] {
	return func(c *Cache[K, V]) { c.maxItems = n }
}

// WithMetrics reports hits and misses to m
func WithMetrics[K comparable, V any](m Metrics) Option[K, V] {
	return func(c *Cache[K, V]) { c.metrics = m }
}

// NewCache creates a cache with the given TTL and starts its janitor
func NewCache[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go c.cleanup(interval)

	return c
}

func (c *Cache[K, V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Close stops the janitor goroutine
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// DeleteExpired drops every expired item
func (c *Cache[K, V]) DeleteExpired() {
	now := c.now()
	c.mu.Lock()
	for key, item := range c.items {
		if item.IsExpired(now) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}

// Get retrieves an unexpired value
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || item.IsExpired(c.now()) {
		if c.metrics != nil {
			c.metrics.IncrementCacheMiss()
		}
		var zero V
		return zero, false
	}

	if c.metrics != nil {
		c.metrics.IncrementCacheHit()
	}
	return item.Value, true
}

// Set stores a value, evicting the soonest-expiring item when full
func (c *Cache[K, V]) Set(key K, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evictLocked(now)
	}

	c.items[key] = &CacheItem[V]{
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
	}
}

func (c *Cache[K, V]) evictLocked(now time.Time) {
	var (
		victim   K
		earliest time.Time
		found    bool
	)
	for key, item := range c.items {
		if item.IsExpired(now) {
			delete(c.items, key)
			continue
		}
		if !found || item.ExpiresAt.Before(earliest) {
			victim, earliest, found = key, item.ExpiresAt, true
		}
	}
	if found && len(c.items) >= c.maxItems {
		delete(c.items, victim)
	}
}

// GetOrCompute returns the cached value or stores and returns fn's result.
// The bool reports whether the value came from the cache.
func (c *Cache[K, V]) GetOrCompute(key K, fn func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v := fn()
	c.Set(key, v)
	return v, false
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*CacheItem[V])
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stats returns cache statistics
func (c *Cache[K, V]) Stats() map[string]interface{} {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	totalItems := len(c.items)
	expiredItems := 0

	for _, item := range c.items {
		if item.IsExpired(now) {
			expiredItems++
		}
	}

	return map[string]interface{}{
		"total_items":   totalItems,
		"expired_items": expiredItems,
		"active_items":  totalItems - expiredItems,
		"max_items":     c.maxItems,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}
