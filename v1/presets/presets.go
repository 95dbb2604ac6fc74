// Package presets bundles ready-made cache configurations for the common
// gateway deployments.
package presets

import (
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/moviegate/respcache/v1/cache"
)

// RedisOptions configures the connection to Redis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewStandalone returns the stock in-memory response cache: ten minute
// TTL, one hundred entries, five minute sweep. Suitable for a
// single-replica gateway.
func NewStandalone[T any]() (*cache.ResponseCache[T], error) {
	return cache.New[T]()
}

// NewShared returns a Cache backed by Redis so several gateway replicas
// reuse each other's upstream responses. Backend failures are downgraded
// to misses; ttl bounds the age of a reused response.
func NewShared[T any](opts RedisOptions, ttl time.Duration) (cache.Cache[T], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	rc, err := cache.NewRedis[T](client, nil, ttl)
	if err != nil {
		return nil, err
	}
	return cache.NewResilient[T](rc), nil
}
