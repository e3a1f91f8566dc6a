package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techfixpro/appkit/core/storage"
)

// ResponseCache implements storage.ResponseCache on Redis. Entries expire
// natively, so Purge never has anything to remove.
type ResponseCache struct {
	client *redis.Client
	prefix string
}

// NewResponseCache creates a ResponseCache keyed under the given prefix.
func NewResponseCache(client *redis.Client, prefix string) *ResponseCache {
	if prefix == "" {
		prefix = "api_cache"
	}
	return &ResponseCache{client: client, prefix: prefix}
}

func (c *ResponseCache) key(key string) string {
	return c.prefix + ":" + key
}

func (c *ResponseCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), payload, ttl).Err()
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", storage.ErrCacheMiss, key)
		}
		return nil, err
	}
	return data, nil
}

func (c *ResponseCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Purge is a no-op: Redis evicts expired entries itself.
func (c *ResponseCache) Purge(ctx context.Context) (int, error) {
	return 0, nil
}
