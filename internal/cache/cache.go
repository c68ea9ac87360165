// Package cache is the single in-memory store behind every external
// lookup. Each entry carries its own expiry, chosen by the writer, so
// detail payloads, search result lists and asset lists can live side by
// side with different lifetimes.
package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a key/value store with a per-entry TTL. Entries are
// immutable once written: Set replaces wholesale. Safe for concurrent
// use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the live value for key. Expired entries count as misses
// and are dropped on the way out.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Recheck: a concurrent Set may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl means "do not
// cache" and leaves any existing entry untouched.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included until
// a read evicts them.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrCompute returns the live value for key, or invokes compute,
// stores its result for ttl, and returns it. Failures are never cached.
// Concurrent misses for the same key are coalesced into one compute
// call that every waiter shares.
func GetOrCompute[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		t, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, t, ttl)
		return t, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: entry %q holds %T", key, v)
	}
	return t, nil
}
