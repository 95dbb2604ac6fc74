package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/moviegate/respcache/v1/metrics"
)

// FetchFunc produces the value for a key on a cache miss, typically by
// calling the upstream API.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader ties a Cache to an upstream fetch. Concurrent misses for the
// same key collapse into a single fetch whose result serves every waiter,
// so a burst of identical requests costs one upstream call.
type Loader[T any] struct {
	cache Cache[T]
	group singleflight.Group
}

// NewLoader returns a Loader backed by c. Wrap c in a Resilient if
// backend failures should not surface to Load callers.
func NewLoader[T any](c Cache[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Load returns the cached value for key, or runs fetch and caches its
// result. A fetch error is returned as-is and nothing is cached.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	var zero T
	metrics.LoadCounter.Inc()
	v, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}
	res, err, _ := l.group.Do(key, func() (any, error) {
		// Another waiter may have populated the cache while we queued.
		if v, ok, err := l.cache.Get(ctx, key); err == nil && ok {
			return v, nil
		}
		metrics.FetchCounter.Inc()
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, v); err != nil {
			return nil, err
		}
		metrics.SetCounter.Inc()
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

// Invalidate removes the key from the underlying cache.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) error {
	metrics.InvalidateCounter.Inc()
	return l.cache.Invalidate(ctx, key)
}
