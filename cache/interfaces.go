package cache

import "context"

type Manager interface {
	AddCache(name string, cache RawCache)
	GetRawCache(name string) (RawCache, bool)
	RemoveCache(name string) error
	Close() error
}

// PrefixDeleter is implemented by raw caches able to drop a key range in one call.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}
