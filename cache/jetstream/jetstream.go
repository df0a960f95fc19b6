package jetstream

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/moseybank/sitelayout/cache"
)

// Cache is a JetStream-backed cache implementation using the NATS KeyValue store.
// The bucket TTL applies to every entry; per key ttls are not supported.
type Cache struct {
	conn   *nats.Conn
	client nats.KeyValue
	maxAge time.Duration
}

// New connects to nats and opens (or creates) the bucket named by the options.
func New(opts ...cache.Option) (cache.RawCache, error) {
	cacheOpts := cache.NewOptions(opts...)

	natsConn, err := nats.Connect(cacheOpts.URI)
	if err != nil {
		return nil, err
	}

	js, err := natsConn.JetStream()
	if err != nil {
		natsConn.Close()
		return nil, err
	}

	client, err := js.CreateKeyValue(&nats.KeyValueConfig{
		Bucket: cacheOpts.Name,
		TTL:    cacheOpts.MaxAge,
	})
	if err != nil {
		var apiErr *nats.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode != nats.JSErrCodeStreamNameInUse {
			natsConn.Close()
			return nil, err
		}

		client, err = js.KeyValue(cacheOpts.Name)
		if err != nil {
			natsConn.Close()
			return nil, err
		}
	}

	if _, err = client.Status(); err != nil {
		natsConn.Close()
		return nil, err
	}

	return &Cache{
		conn:   natsConn,
		client: client,
		maxAge: cacheOpts.MaxAge,
	}, nil
}

// KV keys only allow a restricted alphabet, cache keys are encoded.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeKey(key string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// Get retrieves an item from the cache.
func (jc *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	resp, err := jc.client.Get(encodeKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return resp.Value(), true, nil
}

// Set stores an item; expiry is governed by the bucket TTL.
func (jc *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	_, err := jc.client.Put(encodeKey(key), value)
	return err
}

// Delete removes an item from the cache.
func (jc *Cache) Delete(_ context.Context, key string) error {
	err := jc.client.Delete(encodeKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil
	}
	return err
}

// DeletePrefix removes every key starting with prefix.
func (jc *Cache) DeletePrefix(_ context.Context, prefix string) error {
	return jc.deleteMatching(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// Exists checks if a key exists in the cache.
func (jc *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := jc.Get(ctx, key)
	return found, err
}

// Flush clears all items from the cache.
func (jc *Cache) Flush(_ context.Context) error {
	return jc.deleteMatching(func(string) bool { return true })
}

func (jc *Cache) deleteMatching(match func(key string) bool) error {
	keys, err := jc.client.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}
		return err
	}

	for _, encoded := range keys {
		key, ok := decodeKey(encoded)
		if !ok || !match(key) {
			continue
		}
		if err = jc.client.Delete(encoded); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the NATS connection.
func (jc *Cache) Close() error {
	jc.conn.Close()
	return nil
}
