package dataset

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// SeasonCache keeps parsed seasons in memory so repeated batch runs over
// the same files skip the JSON parse.
type SeasonCache struct {
	cache     *cache.Cache
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewSeasonCache creates a season cache with the given TTL
func NewSeasonCache(ttl time.Duration) *SeasonCache {
	return &SeasonCache{
		cache: cache.New(ttl, ttl*2),
	}
}

// Get retrieves a cached season by file path
func (c *SeasonCache) Get(path string) (*Season, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, found := c.cache.Get(path); found {
		if season, ok := entry.(*Season); ok {
			c.hitCount++
			return season, true
		}
	}
	c.missCount++
	return nil, false
}

// Put stores a parsed season by file path
func (c *SeasonCache) Put(path string, season *Season) {
	c.cache.Set(path, season, cache.DefaultExpiration)
}

// Invalidate removes a season from the cache, e.g. after a refresh fetch
func (c *SeasonCache) Invalidate(path string) {
	c.cache.Delete(path)
}

// Stats returns cache hit and miss counts
func (c *SeasonCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hitCount, c.missCount
}
