package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"

	cerrors "github.com/moviegate/respcache/v1/errors"
)

// RistrettoCache implements Cache on dgraph-io/ristretto, for gateways with
// enough traffic that admission-based eviction beats plain FIFO. Every
// entry is stored with cost 1, so MaxCost bounds the entry count the same
// way ResponseCache's entry bound does.
type RistrettoCache[T any] struct {
	c   *ristretto.Cache
	ttl time.Duration
}

// RistrettoOption configures the underlying ristretto cache.
type RistrettoOption func(*ristretto.Config)

// WithRistrettoConfig replaces the default ristretto configuration.
// A nil cfg keeps the defaults.
func WithRistrettoConfig(cfg *ristretto.Config) RistrettoOption {
	return func(c *ristretto.Config) {
		if cfg == nil {
			return
		}
		*c = *cfg
	}
}

// NewRistretto returns a Cache backed by ristretto. The TTL must be
// positive.
func NewRistretto[T any](ttl time.Duration, opts ...RistrettoOption) (*RistrettoCache[T], error) {
	if ttl <= 0 {
		return nil, cerrors.ErrInvalidTTL
	}
	cfg := &ristretto.Config{
		NumCounters: 10 * DefaultMaxEntries, // frequency sketch sized at 10x capacity
		MaxCost:     DefaultMaxEntries,
		BufferItems: 64,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	rc, err := ristretto.NewCache(cfg)
	if err != nil {
		return nil, err
	}
	return &RistrettoCache[T]{c: rc, ttl: ttl}, nil
}

// Get implements Cache.Get.
func (r *RistrettoCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}
	v, ok := r.c.Get(key)
	if !ok {
		return zero, false, nil
	}
	val, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return val, true, nil
}

// Set implements Cache.Set. Ristretto may reject the write if its
// admission policy decides the key is not worth keeping; that shows up as
// a later miss, not as an error.
func (r *RistrettoCache[T]) Set(ctx context.Context, key string, value T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	r.c.SetWithTTL(key, value, 1, r.ttl)
	r.c.Wait()
	return nil
}

// Invalidate implements Cache.Invalidate.
func (r *RistrettoCache[T]) Invalidate(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	r.c.Del(key)
	r.c.Wait()
	return nil
}

// Close releases resources held by the cache.
func (r *RistrettoCache[T]) Close() {
	r.c.Close()
}
