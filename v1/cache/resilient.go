package cache

import (
	"context"
	"log/slog"
)

// Resilient wraps a Cache and downgrades backend failures to cache misses
// and skipped writes, logging them instead of returning them. A Redis
// outage then costs the caller an extra upstream fetch rather than an
// error.
type Resilient[T any] struct {
	inner  Cache[T]
	logger *slog.Logger
}

// NewResilient creates a Resilient wrapper around inner.
func NewResilient[T any](inner Cache[T]) *Resilient[T] {
	return &Resilient[T]{inner: inner, logger: slog.Default()}
}

// Get implements Cache.Get. A failing backend reads as a miss.
func (r *Resilient[T]) Get(ctx context.Context, key string) (T, bool, error) {
	v, ok, err := r.inner.Get(ctx, key)
	if err != nil {
		r.logger.Warn("respcache: get failed, treating as miss", "key", key, "error", err)
		var zero T
		return zero, false, nil
	}
	return v, ok, nil
}

// Set implements Cache.Set. A failed write is dropped; the value simply
// is not cached.
func (r *Resilient[T]) Set(ctx context.Context, key string, value T) error {
	if err := r.inner.Set(ctx, key, value); err != nil {
		r.logger.Warn("respcache: set failed, skipping write", "key", key, "error", err)
	}
	return nil
}

// Invalidate implements Cache.Invalidate. A failed invalidation is logged
// and suppressed; the entry will still age out through its TTL.
func (r *Resilient[T]) Invalidate(ctx context.Context, key string) error {
	if err := r.inner.Invalidate(ctx, key); err != nil {
		r.logger.Warn("respcache: invalidate failed", "key", key, "error", err)
	}
	return nil
}
