package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/claimcheck/internal/model"
)

// MemoryCache implements in-memory page caching with expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache. A zero ttl keeps pages until cleared.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	cleanup := ttl * 2
	if ttl == gocache.NoExpiration {
		cleanup = 0
	}

	return &MemoryCache{
		cache: gocache.New(ttl, cleanup),
	}
}

// Get retrieves a page from the cache
func (c *MemoryCache) Get(rawURL string) (model.Page, bool) {
	if val, found := c.cache.Get(CacheKey(rawURL)); found {
		page, ok := val.(model.Page)
		return page, ok
	}
	return model.Page{}, false
}

// Set stores a page with the default expiry
func (c *MemoryCache) Set(rawURL string, page model.Page) {
	c.cache.Set(CacheKey(rawURL), page, gocache.DefaultExpiration)
}

// Delete removes a page from the cache
func (c *MemoryCache) Delete(rawURL string) {
	c.cache.Delete(CacheKey(rawURL))
}

// Clear removes all pages from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached pages, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
