package valkey

import (
	"context"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/moseybank/sitelayout/cache"
)

// Cache is a Valkey-backed cache implementation using the official Valkey client.
type Cache struct {
	client valkey.Client
	maxAge time.Duration
}

const (
	connectionTimeout = 5 * time.Second
	scanBatchSize     = 100
)

// New creates a new Valkey cache from a valkey:// or redis:// uri.
func New(opts ...cache.Option) (cache.RawCache, error) {
	cacheOpts := cache.NewOptions(opts...)

	uri := cacheOpts.URI
	if rest, ok := strings.CutPrefix(uri, "valkey://"); ok {
		uri = "redis://" + rest
	}

	valkeyOpts, err := valkey.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(valkeyOpts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if pingErr := client.Do(ctx, client.B().Ping().Build()).Error(); pingErr != nil {
		client.Close()
		return nil, pingErr
	}

	return &Cache{
		client: client,
		maxAge: cacheOpts.MaxAge,
	}, nil
}

// Get retrieves an item from the cache.
func (vc *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	resp := vc.client.Do(ctx, vc.client.B().Get().Key(key).Build())

	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	val, err := resp.AsBytes()
	if err != nil {
		return nil, false, err
	}

	return val, true, nil
}

// Set sets an item in the cache with the specified TTL.
func (vc *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = vc.maxAge
	}

	var cmd valkey.Completed
	if ttl > 0 {
		// Ex() takes whole seconds
		seconds := int64(ttl.Seconds())
		if seconds == 0 {
			seconds = 1
		}
		cmd = vc.client.B().Set().Key(key).Value(valkey.BinaryString(value)).ExSeconds(seconds).Build()
	} else {
		cmd = vc.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build()
	}

	return vc.client.Do(ctx, cmd).Error()
}

// Delete removes an item from the cache.
func (vc *Cache) Delete(ctx context.Context, key string) error {
	return vc.client.Do(ctx, vc.client.B().Del().Key(key).Build()).Error()
}

// DeletePrefix scans for keys starting with prefix and deletes them.
func (vc *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		cmd := vc.client.B().Scan().Cursor(cursor).Match(prefix + "*").Count(scanBatchSize).Build()
		entry, err := vc.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return err
		}

		if len(entry.Elements) > 0 {
			delCmd := vc.client.B().Del().Key(entry.Elements...).Build()
			if delErr := vc.client.Do(ctx, delCmd).Error(); delErr != nil {
				return delErr
			}
		}

		if entry.Cursor == 0 {
			return nil
		}
		cursor = entry.Cursor
	}
}

// Exists checks if a key exists in the cache.
func (vc *Cache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := vc.client.Do(ctx, vc.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Flush clears all items from the cache.
func (vc *Cache) Flush(ctx context.Context) error {
	return vc.client.Do(ctx, vc.client.B().Flushdb().Build()).Error()
}

// Close closes the Valkey connection.
func (vc *Cache) Close() error {
	vc.client.Close()
	return nil
}
