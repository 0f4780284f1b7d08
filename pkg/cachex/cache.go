// Package cachex provides an in-process TTL response cache with glob-pattern
// invalidation. An expired entry is indistinguishable from an absent one; the
// caller never observes stale data.
package cachex

import (
	"sync"
	"time"

	"github.com/gobwas/glob"
)

// DefaultTTL applies to entries stored without an explicit ttl.
const DefaultTTL = 60 * time.Second

type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
}

// Cache is a mutex-protected key/value store with per-entry expiry. It is an
// injectable instance rather than package state, so each server (and each
// test) owns its own cache.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration

	// now is swapped out in tests to step time deterministically.
	now func() time.Time
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the live value for key. Expired entries report absent and are
// pruned on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > e.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced in.
		if cur, ok := c.entries[key]; ok && cur.createdAt.Equal(e.createdAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's default TTL, overwriting any
// previous entry and resetting its clock.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, createdAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Invalidate removes every entry whose key matches pattern ("user:42:*").
// A pattern that fails to compile is treated as a literal key. Returns the
// number of entries removed.
func (c *Cache) Invalidate(pattern string) int {
	g, err := glob.Compile(pattern)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if _, ok := c.entries[pattern]; ok {
			delete(c.entries, pattern)
			return 1
		}
		return 0
	}

	removed := 0
	for key := range c.entries {
		if g.Match(key) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not. Test helper.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
