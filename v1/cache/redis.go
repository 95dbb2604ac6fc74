package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	cerrors "github.com/moviegate/respcache/v1/errors"
)

// RedisCache implements Cache on a Redis backend, for deployments where
// several gateway replicas should reuse each other's upstream responses.
// Expiry is delegated to Redis key TTLs, so there is no sweeper to run and
// no Close to call.
type RedisCache[T any] struct {
	client *redis.Client
	codec  Codec
	ttl    time.Duration
}

// NewRedis returns a RedisCache using the provided Redis client. If codec
// is nil, JSONCodec is used. The TTL must be positive.
func NewRedis[T any](client *redis.Client, codec Codec, ttl time.Duration) (*RedisCache[T], error) {
	if ttl <= 0 {
		return nil, cerrors.ErrInvalidTTL
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	return &RedisCache[T]{client: client, codec: codec, ttl: ttl}, nil
}

// Get implements Cache.Get. An absent or expired key is a miss; transport
// and decode failures are returned to the caller.
func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var v T
	if err := c.codec.Unmarshal(data, &v); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Set implements Cache.Set. The entry expires after the cache TTL.
func (c *RedisCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := c.codec.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate implements Cache.Invalidate.
func (c *RedisCache[T]) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
