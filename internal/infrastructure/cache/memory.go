package cache

import (
	"context"
	"sync"
	"time"

	"github.com/labelpadhega/backend/internal/domain"
)

// cacheItem represents a single cached product detail with expiration
type cacheItem struct {
	detail     *domain.ProductDetail
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache for resolved product details.
// The core services work identically with a nil cache; this only saves
// repeated catalog fetches for the same barcode.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves a cached product detail by barcode
func (c *MemoryCache) Get(ctx context.Context, code string) (*domain.ProductDetail, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[code]
	if !exists || time.Now().After(item.expiration) {
		return nil, false
	}

	return item.detail, true
}

// Set stores a product detail with the given TTL
func (c *MemoryCache) Set(ctx context.Context, code string, detail *domain.ProductDetail, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[code] = cacheItem{
		detail:     detail,
		expiration: time.Now().Add(ttl),
	}
}

// Delete removes a cached entry
func (c *MemoryCache) Delete(code string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, code)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for code, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, code)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
