package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/smartsave/freshness/internal/domain"
)

// defaultCleanupInterval is how often expired score entries are swept
const defaultCleanupInterval = 10 * time.Minute

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support. Values are
// stored in their JSON form so readers see the same shapes as with Redis.
type MemoryCache struct {
	data      map[string]cacheItem
	mutex     sync.RWMutex
	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache and starts its sweeper
func NewMemoryCache() *MemoryCache {
	return newMemoryCache(defaultCleanupInterval)
}

func newMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		stop: make(chan struct{}),
	}
	go cache.cleanupExpired(cleanupInterval)
	return cache
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	storedValue, err := roundTripJSON(value)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      storedValue,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	return exists && !time.Now().After(item.Expiration), nil
}

// Close stops the sweeper. The cache stays usable.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() { close(c.stop) })
	return nil
}

// cleanupExpired removes expired entries until Close is called
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// roundTripJSON converts value to the generic shape JSON decoding produces
func roundTripJSON(value interface{}) (interface{}, error) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := json.Unmarshal(jsonData, &out); err != nil {
		return nil, err
	}
	return out, nil
}
