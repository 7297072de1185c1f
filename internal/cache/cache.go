// Package cache is a process-local, tag-addressable TTL cache for read
// results from the database. It is deliberately not shared across
// processes; when more than one instance runs, the TTLs bound staleness.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
	tags      map[string]struct{}
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Cache holds tagged entries behind a RWMutex. Only GetOrCompute and
// InvalidateTag are exposed; nothing else may touch the map, which keeps
// the tagging invariant enforceable.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// GetOrCompute returns the cached value for key if present and unexpired.
// Otherwise it runs producer, stores the result tagged with tags and an
// expiry of now+ttl, and returns it. A failed producer stores nothing; the
// next caller retries from scratch. Concurrent misses on the same key may
// each run the producer — producers are idempotent reads, so the last
// write simply wins.
func (c *Cache) GetOrCompute(key string, tags []string, ttl time.Duration, producer func() (any, error)) (any, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if !e.expired(now) {
			return e.value, nil
		}
		// Lazy prune; re-check under the write lock since another
		// goroutine may have refreshed it already.
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expired(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	value, err := producer()
	if err != nil {
		return nil, err
	}

	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: now.Add(ttl),
		tags:      tagSet,
	}
	c.mu.Unlock()

	return value, nil
}

// InvalidateTag drops every entry carrying tag, regardless of remaining
// TTL. Mutation paths call this synchronously before their HTTP response
// is written so the next reader recomputes.
func (c *Cache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if _, ok := e.tags[tag]; ok {
			delete(c.entries, k)
		}
	}
}

// InvalidateTags is a convenience for mutation paths that touch several tags.
func (c *Cache) InvalidateTags(tags ...string) {
	for _, t := range tags {
		c.InvalidateTag(t)
	}
}

// Size returns the current number of entries, expired or not.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
