package sitelayout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/cache/jetstream"
	"github.com/moseybank/sitelayout/cache/redis"
	"github.com/moseybank/sitelayout/cache/valkey"
	"github.com/moseybank/sitelayout/config"
)

const defaultCacheURI = "mem://"

// WithCacheManager adds a cache manager to the service.
func WithCacheManager() Option {
	return func(_ context.Context, s *Service) {
		if s.cacheManager == nil {
			s.cacheManager = cache.NewManager()

			s.AddCleanupMethod(func(_ context.Context) {
				if s.cacheManager != nil {
					_ = s.cacheManager.Close()
				}
			})
		}
	}
}

// WithCache adds a raw cache with the given name to the service.
func WithCache(name string, rawCache cache.RawCache) Option {
	return func(ctx context.Context, s *Service) {
		if s.cacheManager == nil {
			WithCacheManager()(ctx, s)
		}

		s.cacheManager.AddCache(name, rawCache)
	}
}

// WithInMemoryCache adds an in-memory cache with the given name.
func WithInMemoryCache(name string) Option {
	return WithCache(name, cache.NewInMemoryCache())
}

// WithCacheURI selects the backend of the caches the service opens itself:
// mem://, redis://, rediss://, valkey:// or nats://.
func WithCacheURI(uri string) Option {
	return func(_ context.Context, s *Service) {
		s.cacheURI = uri
	}
}

// CacheManager returns the service's cache manager.
func (s *Service) CacheManager() cache.Manager {
	return s.cacheManager
}

// GetRawCache is a convenience method to get a raw cache by name from the service.
func (s *Service) GetRawCache(name string) (cache.RawCache, bool) {
	if s.cacheManager == nil {
		return nil, false
	}
	return s.cacheManager.GetRawCache(name)
}

func (s *Service) cacheURIFor() string {
	if s.cacheURI != "" {
		return s.cacheURI
	}
	if cfg, ok := s.Config().(config.ConfigurationCache); ok && cfg.GetCacheURI() != "" {
		return cfg.GetCacheURI()
	}
	return defaultCacheURI
}

func (s *Service) cacheMaxAge(name string) time.Duration {
	switch name {
	case cache.NameLocales:
		if cfg, ok := s.Config().(config.ConfigurationCache); ok {
			return cfg.GetLocaleCacheTTL()
		}
	case cache.NameGraphQueries:
		if cfg, ok := s.Config().(config.ConfigurationGraph); ok {
			return cfg.GetGraphQueryCacheTTL()
		}
	}
	return time.Hour
}

// openRawCache connects the backend named by the uri scheme.
func openRawCache(ctx context.Context, uri, name string, maxAge time.Duration) (cache.RawCache, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("cache uri: %w", err)
	}

	opts := []cache.Option{cache.WithURI(uri), cache.WithName(name), cache.WithMaxAge(maxAge)}

	var raw cache.RawCache
	switch strings.ToLower(u.Scheme) {
	case "", "mem", "memory":
		raw = cache.NewInMemoryCache()
	case "redis", "rediss":
		raw, err = redis.New(opts...)
	case "valkey":
		raw, err = valkey.New(opts...)
	case "nats":
		raw, err = jetstream.New(opts...)
	default:
		return nil, fmt.Errorf("cache uri: unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", name, err)
	}

	util.Log(ctx).WithField("cache", name).WithField("scheme", u.Scheme).Debug("cache opened")
	return raw, nil
}
