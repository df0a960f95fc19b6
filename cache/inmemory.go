package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// inMemoryCacheItem represents a cache item with expiration.
type inMemoryCacheItem struct {
	value      []byte
	expiration time.Time
}

func (i *inMemoryCacheItem) isExpired() bool {
	if i.expiration.IsZero() {
		return false
	}
	return time.Now().After(i.expiration)
}

// InMemoryCache is a thread-safe in-memory cache implementation.
type InMemoryCache struct {
	items      sync.Map // map[string]*inMemoryCacheItem
	closeOnce  sync.Once
	stopClean  chan struct{}
	cleanupInt time.Duration
}

const defaultCleanupInterval = 5 * time.Minute

// NewInMemoryCache creates a new in-memory cache.
func NewInMemoryCache() RawCache {
	c := &InMemoryCache{
		stopClean:  make(chan struct{}),
		cleanupInt: defaultCleanupInterval,
	}

	go c.startCleanup()

	return c
}

func (c *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopClean:
			return
		}
	}
}

func (c *InMemoryCache) cleanup() {
	c.items.Range(func(key, value any) bool {
		item, ok := value.(*inMemoryCacheItem)
		if ok && item.isExpired() {
			c.items.Delete(key)
		}
		return true
	})
}

// Get retrieves an item from the cache.
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.items.Load(key)
	if !ok {
		return nil, false, nil
	}

	item, ok := value.(*inMemoryCacheItem)
	if !ok || item.isExpired() {
		c.items.Delete(key)
		return nil, false, nil
	}

	return item.value, true, nil
}

// Set sets an item in the cache with the specified TTL.
func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := &inMemoryCacheItem{
		value: value,
	}

	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	c.items.Store(key, item)
	return nil
}

// Delete removes an item from the cache.
func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// DeletePrefix removes every item whose key starts with prefix.
func (c *InMemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.items.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			c.items.Delete(key)
		}
		return true
	})
	return nil
}

// Exists checks if a key exists in the cache.
func (c *InMemoryCache) Exists(_ context.Context, key string) (bool, error) {
	value, ok := c.items.Load(key)
	if !ok {
		return false, nil
	}

	if cachedItem, itemOK := value.(*inMemoryCacheItem); itemOK && cachedItem.isExpired() {
		c.items.Delete(key)
		return false, nil
	}

	return true, nil
}

// Flush clears all items from the cache.
func (c *InMemoryCache) Flush(_ context.Context) error {
	c.items.Range(func(key, _ any) bool {
		c.items.Delete(key)
		return true
	})
	return nil
}

// Close stops the cleanup goroutine.
func (c *InMemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopClean)
	})
	return nil
}
