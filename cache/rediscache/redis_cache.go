// Package rediscache is the Redis-backed page cache. Bulk invalidation
// walks the keyspace with SCAN rather than KEYS so it never blocks the
// server, and deletes in batches as the iterator yields.
package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"photostream/cache"
)

var _ cache.Pages = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
}

func New(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetPage(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "RedisCache.GetPage")
	}
	return val, nil
}

func (c *RedisCache) PutPage(ctx context.Context, key string, snapshot []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, snapshot, ttl).Err(); err != nil {
		return errors.Wrap(err, "RedisCache.PutPage")
	}
	return nil
}

func (c *RedisCache) InvalidateAll(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "RedisCache.InvalidateAll del")
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "RedisCache.InvalidateAll scan")
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, "RedisCache.InvalidateAll del")
		}
	}
	return nil
}
