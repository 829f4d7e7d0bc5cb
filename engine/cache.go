package engine

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long an aggregated response stays servable.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// Cache memoizes complete aggregated responses keyed by normalized query
// parameters. Entries expire lazily on read; Clear is the only other
// invalidation primitive. Cached responses are shared and must be treated
// as immutable by callers.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given entry TTL.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live response for key, or nil on a miss.
// Expired entries count as misses and are dropped.
func (c *Cache) Get(key string) *Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return entry.response
}

// Set stores response under key with the cache's TTL.
func (c *Cache) Set(key string, response *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		response:  response,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Clear removes all entries unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
