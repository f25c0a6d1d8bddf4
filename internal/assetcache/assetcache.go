package assetcache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a sanitized asset is served before it is re-read.
const DefaultTTL = 300 * time.Second

// Cache maps asset names to sanitized HTML. Entries expire ttl after they
// were inserted, regardless of how often they are read. It is safe for
// concurrent use; two callers missing the same key at once both recompute
// and the last insert wins.
type Cache struct {
	c   *cache.Cache
	ttl time.Duration
}

// New creates a Cache with the given entry TTL. Expired entries are purged
// in the background every cleanupInterval; zero disables purging, in which
// case expired entries are still reported as misses.
func New(ttl, cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = cache.NoExpiration
	}
	return &Cache{
		c:   cache.New(ttl, cleanupInterval),
		ttl: ttl,
	}
}

// Get returns the cached value for key, or false if it is absent or expired.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Insert stores value under key, replacing any previous entry.
func (c *Cache) Insert(key, value string) {
	c.c.Set(key, value, c.ttl)
}
