package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/moseybank/sitelayout/cache"
)

type CacheTestSuite struct {
	suite.Suite
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func (s *CacheTestSuite) TestBasicOperations() {
	ctx := context.Background()
	rawCache := cache.NewInMemoryCache()
	defer rawCache.Close()

	tests := []struct {
		testName string
		key      string
		value    []byte
		ttl      time.Duration
	}{
		{"Simple value", "key1", []byte("value1"), 0},
		{"With TTL", "key2", []byte("value2"), 1 * time.Hour},
		{"Empty value", "key3", []byte{}, 0},
	}

	for _, tt := range tests {
		s.Run(tt.testName, func() {
			s.Require().NoError(rawCache.Set(ctx, tt.key, tt.value, tt.ttl))

			value, found, err := rawCache.Get(ctx, tt.key)
			s.Require().NoError(err)
			s.True(found)
			s.Equal(tt.value, value)

			exists, err := rawCache.Exists(ctx, tt.key)
			s.Require().NoError(err)
			s.True(exists)

			s.Require().NoError(rawCache.Delete(ctx, tt.key))

			_, found, err = rawCache.Get(ctx, tt.key)
			s.Require().NoError(err)
			s.False(found)
		})
	}
}

func (s *CacheTestSuite) TestTTLExpiration() {
	ctx := context.Background()
	rawCache := cache.NewInMemoryCache()
	defer rawCache.Close()

	s.Require().NoError(rawCache.Set(ctx, "expiring", []byte("v"), 50*time.Millisecond))

	_, found, err := rawCache.Get(ctx, "expiring")
	s.Require().NoError(err)
	s.True(found)

	time.Sleep(120 * time.Millisecond)

	_, found, err = rawCache.Get(ctx, "expiring")
	s.Require().NoError(err)
	s.False(found)

	exists, err := rawCache.Exists(ctx, "expiring")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *CacheTestSuite) TestFlushAndDeletePrefix() {
	ctx := context.Background()
	rawCache := cache.NewInMemoryCache()
	defer rawCache.Close()

	s.Require().NoError(rawCache.Set(ctx, "scope-a:1", []byte("1"), 0))
	s.Require().NoError(rawCache.Set(ctx, "scope-a:2", []byte("2"), 0))
	s.Require().NoError(rawCache.Set(ctx, "scope-b:1", []byte("3"), 0))

	deleter, ok := rawCache.(cache.PrefixDeleter)
	s.Require().True(ok)
	s.Require().NoError(deleter.DeletePrefix(ctx, "scope-a:"))

	exists, err := rawCache.Exists(ctx, "scope-a:1")
	s.Require().NoError(err)
	s.False(exists)
	exists, err = rawCache.Exists(ctx, "scope-b:1")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(rawCache.Flush(ctx))
	exists, err = rawCache.Exists(ctx, "scope-b:1")
	s.Require().NoError(err)
	s.False(exists)

	s.NoError(rawCache.Close())
	s.NoError(rawCache.Close())
}

func (s *CacheTestSuite) TestGenericCacheRoundTrip() {
	ctx := context.Background()
	typed := cache.NewGenericCache[string, []string](cache.NewInMemoryCache(), nil)
	defer typed.Close()

	_, found, err := typed.Get(ctx, "missing")
	s.Require().NoError(err)
	s.False(found)

	s.Require().NoError(typed.Set(ctx, "locales", []string{"en", "fr"}, time.Minute))
	value, found, err := typed.Get(ctx, "locales")
	s.Require().NoError(err)
	s.True(found)
	s.Equal([]string{"en", "fr"}, value)

	exists, err := typed.Exists(ctx, "locales")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(typed.Delete(ctx, "locales"))
	exists, err = typed.Exists(ctx, "locales")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *CacheTestSuite) TestGenericCacheRejectsCorruptData() {
	ctx := context.Background()
	raw := cache.NewInMemoryCache()
	defer raw.Close()

	s.Require().NoError(raw.Set(ctx, "bad", []byte("{not json"), 0))

	typed := cache.NewGenericCache[string, []string](raw, func(k string) string { return k })
	_, found, err := typed.Get(ctx, "bad")
	s.Error(err)
	s.False(found)
}

func (s *CacheTestSuite) TestManager() {
	ctx := context.Background()
	mgr := cache.NewManager()

	_, ok := mgr.GetRawCache(cache.NameLocales)
	s.False(ok)

	mgr.AddCache(cache.NameLocales, cache.NewInMemoryCache())
	typed, ok := cache.GetCache[string, []string](mgr, cache.NameLocales, nil)
	s.Require().True(ok)
	s.Require().NoError(typed.Set(ctx, "k", []string{"en"}, 0))

	_, ok = cache.GetCache[string, []string](mgr, cache.NameGraphQueries, nil)
	s.False(ok)

	s.Require().NoError(mgr.RemoveCache(cache.NameLocales))
	s.Require().NoError(mgr.RemoveCache(cache.NameLocales))
	_, ok = mgr.GetRawCache(cache.NameLocales)
	s.False(ok)

	mgr.AddCache(cache.NameGraphQueries, cache.NewInMemoryCache())
	s.Require().NoError(mgr.Close())
	_, ok = mgr.GetRawCache(cache.NameGraphQueries)
	s.False(ok)
}
