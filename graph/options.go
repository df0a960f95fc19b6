package graph

import (
	"encoding/json"
	"time"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/client"
	"github.com/moseybank/sitelayout/config"
)

const defaultQueryCacheTTL = time.Minute

// Option configures a graph client.
type Option func(*options)

type options struct {
	fetchCaching  bool
	cache         bool
	queryCache    bool
	queryCacheTTL time.Duration

	httpManager client.Manager
	queryStore  cache.Cache[string, json.RawMessage]
	cfg         config.ConfigurationGraph
}

// WithFetchCaching sends queries as GET requests so http caches in front of
// the gateway can serve repeated queries.
func WithFetchCaching(enabled bool) Option {
	return func(o *options) {
		o.fetchCaching = enabled
	}
}

// WithCache toggles the gateway side cache (the cache url parameter).
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithQueryCache keeps successful responses in the query cache store.
func WithQueryCache(enabled bool) Option {
	return func(o *options) {
		o.queryCache = enabled
	}
}

// WithQueryCacheStore sets where cached responses are kept, an in-memory cache is used otherwise.
func WithQueryCacheStore(store cache.Cache[string, json.RawMessage], ttl time.Duration) Option {
	return func(o *options) {
		o.queryStore = store
		if ttl > 0 {
			o.queryCacheTTL = ttl
		}
	}
}

// WithHTTPManager sets the invoker used to reach the gateway.
func WithHTTPManager(manager client.Manager) Option {
	return func(o *options) {
		o.httpManager = manager
	}
}

// WithConfig supplies gateway, key and transport settings used when NewClient gets empty values.
func WithConfig(cfg config.ConfigurationGraph) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// DefaultOptions are the flags the layout renderers use when they build their own client.
func DefaultOptions() []Option {
	return []Option{WithFetchCaching(true), WithCache(true), WithQueryCache(true)}
}
