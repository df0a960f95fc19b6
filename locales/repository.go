package locales

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/pitabwire/util"
	"golang.org/x/sync/singleflight"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/gql"
	"github.com/moseybank/sitelayout/graph"
)

const (
	operationGetLocales = "getLocales"
	keyPrefix           = cache.NameLocales + ":"
	defaultTTL          = 5 * time.Minute
)

// ClientFactory builds the graph client used when a caller passes none.
type ClientFactory func(ctx context.Context) graph.Client

type cacheKey struct {
	scope         string
	includeSystem bool
}

func (k cacheKey) String() string {
	return keyPrefix + k.scope + ":" + strconv.FormatBool(k.includeSystem)
}

// Repository resolves the locales published by the content graph and keeps
// them per cache scope.
type Repository struct {
	raw     cache.RawCache
	ownsRaw bool
	store   cache.Cache[cacheKey, []string]
	ttl   time.Duration
	group singleflight.Group

	newClient     ClientFactory
	defaultClient func() graph.Client
}

type Option func(*Repository)

// WithRawCache stores locale lists in raw instead of a private in-memory cache.
func WithRawCache(raw cache.RawCache) Option {
	return func(r *Repository) {
		r.raw = raw
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithClientFactory(factory ClientFactory) Option {
	return func(r *Repository) {
		r.newClient = factory
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{ttl: defaultTTL}
	for _, opt := range opts {
		opt(r)
	}

	if r.raw == nil {
		r.raw = cache.NewInMemoryCache()
		r.ownsRaw = true
	}
	r.store = cache.NewGenericCache[cacheKey, []string](r.raw, cacheKey.String)

	if r.newClient == nil {
		r.newClient = func(_ context.Context) graph.Client {
			return graph.NewClient("", "", graph.DefaultOptions()...)
		}
	}

	var once sync.Once
	var client graph.Client
	r.defaultClient = func() graph.Client {
		once.Do(func() { client = r.newClient(context.Background()) })
		return client
	}
	return r
}

// GetLocales returns the locales of the content graph. ALL and NEUTRAL are
// only part of the list when includeSystem is set. A nil client uses the
// repository's default client. On failure the list is empty and nothing is
// cached.
func (r *Repository) GetLocales(ctx context.Context, includeSystem bool, client graph.Client) []string {
	key := cacheKey{scope: ScopeFromContext(ctx), includeSystem: includeSystem}

	if list, found := r.lookup(ctx, key); found {
		return list
	}

	v, _, _ := r.group.Do(key.String(), func() (any, error) {
		if list, found := r.lookup(ctx, key); found {
			return list, nil
		}

		if client == nil {
			client = r.defaultClient()
		}

		res, err := gql.GetSdk(client).GetLocales(ctx)
		if err != nil {
			graph.ReportFailure(ctx, operationGetLocales, err)
			return []string{}, err
		}

		list := FromSchema(res, includeSystem)
		if setErr := r.store.Set(ctx, key, list, r.ttl); setErr != nil {
			util.Log(ctx).WithError(setErr).WithField("key", key.String()).Warn("could not cache locales")
		}
		return list, nil
	})

	list, _ := v.([]string)
	return slices.Clone(list)
}

// CachedLocales returns the list already resolved in the current scope without
// querying the graph.
func (r *Repository) CachedLocales(ctx context.Context, includeSystem bool) ([]string, bool) {
	list, found := r.lookup(ctx, cacheKey{scope: ScopeFromContext(ctx), includeSystem: includeSystem})
	return slices.Clone(list), found
}

func (r *Repository) lookup(ctx context.Context, key cacheKey) ([]string, bool) {
	list, found, err := r.store.Get(ctx, key)
	if err != nil {
		util.Log(ctx).WithError(err).WithField("key", key.String()).Warn("locale cache lookup failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if list == nil {
		list = []string{}
	}
	return list, true
}

// Invalidate forgets the locale lists of the scope carried by ctx.
func (r *Repository) Invalidate(ctx context.Context) error {
	scope := ScopeFromContext(ctx)

	if deleter, ok := r.raw.(cache.PrefixDeleter); ok {
		return deleter.DeletePrefix(ctx, keyPrefix+scope+":")
	}

	for _, includeSystem := range []bool{false, true} {
		if err := r.store.Delete(ctx, cacheKey{scope: scope, includeSystem: includeSystem}); err != nil {
			return err
		}
	}
	return nil
}

// EndRequestScope releases the lists cached for the request scope of ctx.
// It does nothing for the process scope.
func (r *Repository) EndRequestScope(ctx context.Context) {
	if !IsRequestScoped(ctx) {
		return
	}
	if err := r.Invalidate(ctx); err != nil {
		util.Log(ctx).WithError(err).WithField("scope", ScopeFromContext(ctx)).Warn("could not release locale scope")
	}
}

// Close releases the private cache. A cache passed with WithRawCache stays open.
func (r *Repository) Close() error {
	if !r.ownsRaw {
		return nil
	}
	return r.raw.Close()
}
