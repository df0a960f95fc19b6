package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moseybank/sitelayout/cache"
)

// Cache is a Redis-backed cache implementation.
type Cache struct {
	client *redis.Client
	maxAge time.Duration
}

const (
	connectionTimeout = 5 * time.Second
	scanBatchSize     = 100
)

// New connects to the redis server named by the cache uri and pings it.
func New(opts ...cache.Option) (cache.RawCache, error) {
	cacheOpts := cache.NewOptions(opts...)

	redisOpts, err := redis.ParseURL(cacheOpts.URI)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		_ = client.Close()
		return nil, pingErr
	}

	return NewWithClient(client, cacheOpts.MaxAge), nil
}

// NewWithClient wraps an already configured client.
func NewWithClient(client *redis.Client, maxAge time.Duration) *Cache {
	return &Cache{
		client: client,
		maxAge: maxAge,
	}
}

// Get retrieves an item from the cache.
func (rc *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// Set sets an item in the cache; a non positive ttl falls back to the configured max age.
func (rc *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rc.maxAge
	}
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes an item from the cache.
func (rc *Cache) Delete(ctx context.Context, key string) error {
	return rc.client.Del(ctx, key).Err()
}

// DeletePrefix scans for keys starting with prefix and deletes them in batches.
func (rc *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if delErr := rc.client.Del(ctx, keys...).Err(); delErr != nil {
				return delErr
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Exists checks if a key exists in the cache.
func (rc *Cache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := rc.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Flush clears all items from the cache.
func (rc *Cache) Flush(ctx context.Context) error {
	return rc.client.FlushDB(ctx).Err()
}

// Close closes the Redis connection.
func (rc *Cache) Close() error {
	return rc.client.Close()
}
