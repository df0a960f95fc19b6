package cache

import (
	"errors"
	"sync"
)

// Names of the caches the layout service registers.
const (
	NameLocales      = "locales"
	NameGraphQueries = "graph-queries"
)

type manager struct {
	caches sync.Map // map[string]RawCache
}

// NewManager creates a registry of named raw caches.
func NewManager() Manager {
	return &manager{}
}

// AddCache registers cache under name, closing any cache it replaces.
func (cm *manager) AddCache(name string, cache RawCache) {
	if previous, loaded := cm.caches.Swap(name, cache); loaded {
		if rawCache, ok := previous.(RawCache); ok && rawCache != cache {
			_ = rawCache.Close()
		}
	}
}

func (cm *manager) GetRawCache(name string) (RawCache, bool) {
	c, ok := cm.caches.Load(name)
	if !ok {
		return nil, false
	}
	rawCache, ok := c.(RawCache)
	return rawCache, ok
}

// GetCache returns a typed view over the named raw cache.
func GetCache[K comparable, V any](
	manager Manager,
	name string,
	keyFunc func(K) string,
) (Cache[K, V], bool) {
	raw, ok := manager.GetRawCache(name)
	if !ok {
		return nil, false
	}
	return NewGenericCache[K, V](raw, keyFunc), true
}

// RemoveCache removes and closes the cache with the given name.
func (cm *manager) RemoveCache(name string) error {
	c, ok := cm.caches.LoadAndDelete(name)
	if !ok {
		return nil
	}
	rawCache, ok := c.(RawCache)
	if !ok {
		return nil
	}
	return rawCache.Close()
}

// Close closes all managed caches.
func (cm *manager) Close() error {
	var errs []error

	cm.caches.Range(func(key, value any) bool {
		if rawCache, ok := value.(RawCache); ok {
			if closeErr := rawCache.Close(); closeErr != nil {
				errs = append(errs, closeErr)
			}
		}
		cm.caches.Delete(key)
		return true
	})

	return errors.Join(errs...)
}
