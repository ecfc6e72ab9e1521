package memory

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/eduflow-api/pkg/cache"
)

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is a process-local stand-in for the Redis cache repository. Values are
// stored as JSON so callers observe the same copy semantics as with Redis.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}, now: time.Now}
}

// Get decodes the entry for key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(entry.payload, dest)
}

// Set stores value under key for ttl; ttl <= 0 never expires.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := cacheEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// DeleteByPattern removes keys matching a glob pattern.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}
