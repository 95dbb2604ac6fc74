package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cerrors "github.com/moviegate/respcache/v1/errors"
)

var tracer = otel.Tracer("github.com/moviegate/respcache/v1/cache")

// Cache defines the operations a response cache must support.
//
// T is the type of the cached response payload. The TTL is a property of
// the cache instance rather than of each write: Set stamps the entry with
// the current time and Get refuses entries older than the configured
// expiry.
type Cache[T any] interface {
	// Get retrieves the value for the given key. The boolean return
	// indicates whether a fresh entry was found. An error is returned
	// only when the backend fails; a stale or absent entry is a miss.
	Get(ctx context.Context, key string) (T, bool, error)
	// Set inserts or overwrites the entry for the given key, resetting
	// its age.
	Set(ctx context.Context, key string, value T) error
	// Invalidate removes the key from the cache.
	Invalidate(ctx context.Context, key string) error
}

// Defaults applied by New when no overriding option is given.
const (
	DefaultTTL           = 10 * time.Minute
	DefaultMaxEntries    = 100
	DefaultSweepInterval = 5 * time.Minute
)

// ResponseCache is an in-memory Cache with TTL expiry and FIFO eviction.
//
// Entries are ordered by insertion time; when the cache is full the oldest
// surviving insertion is dropped to make room. Overwriting a key resets
// its timestamp and moves it to the back of the eviction order. Expired
// entries are removed lazily on Get and eagerly by the background sweeper.
type ResponseCache[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	order *list.List // front is the oldest surviving insertion

	ttl           time.Duration
	maxEntries    int
	sweepInterval time.Duration
	logger        *slog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	hitCounter      prometheus.Counter
	missCounter     prometheus.Counter
	evictionCounter prometheus.Counter
	latencyHist     prometheus.Histogram
	traceEnabled    bool
}

type entry[T any] struct {
	value      T
	insertedAt time.Time
	element    *list.Element
}

// Option configures a ResponseCache.
type Option[T any] func(*ResponseCache[T])

// WithTTL sets the maximum age of an entry before it is considered stale.
func WithTTL[T any](d time.Duration) Option[T] {
	return func(c *ResponseCache[T]) {
		c.ttl = d
	}
}

// WithMaxEntries sets the maximum number of entries the cache retains.
func WithMaxEntries[T any](n int) Option[T] {
	return func(c *ResponseCache[T]) {
		c.maxEntries = n
	}
}

// WithSweepInterval sets the period of the background sweep. A zero or
// negative duration disables the sweeper; lazy expiry in Get still
// applies.
func WithSweepInterval[T any](d time.Duration) Option[T] {
	return func(c *ResponseCache[T]) {
		c.sweepInterval = d
	}
}

// WithLogger sets the logger used by the background sweeper.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *ResponseCache[T]) {
		c.logger = l
	}
}

// WithMetrics enables Prometheus metrics collection using the provided registerer.
func WithMetrics[T any](reg prometheus.Registerer) Option[T] {
	return func(c *ResponseCache[T]) {
		c.hitCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "respcache_hits_total",
			Help: "Total number of cache hits",
		})
		c.missCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "respcache_misses_total",
			Help: "Total number of cache misses",
		})
		c.evictionCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "respcache_evictions_total",
			Help: "Total number of cache evictions",
		})
		c.latencyHist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "respcache_op_latency_seconds",
			Help:    "Latency of cache operations",
			Buckets: prometheus.DefBuckets,
		})
		reg.MustRegister(c.hitCounter, c.missCounter, c.evictionCounter, c.latencyHist)
	}
}

// WithTracing enables OpenTelemetry tracing for cache operations.
func WithTracing[T any]() Option[T] {
	return func(c *ResponseCache[T]) {
		c.traceEnabled = true
	}
}

// New returns a new ResponseCache.
//
// Without options the cache keeps up to DefaultMaxEntries entries for
// DefaultTTL and sweeps expired ones every DefaultSweepInterval. A
// non-positive TTL or entry bound is a configuration error.
func New[T any](opts ...Option[T]) (*ResponseCache[T], error) {
	c := &ResponseCache[T]{
		items:         make(map[string]entry[T]),
		order:         list.New(),
		ttl:           DefaultTTL,
		maxEntries:    DefaultMaxEntries,
		sweepInterval: DefaultSweepInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl <= 0 {
		return nil, cerrors.ErrInvalidTTL
	}
	if c.maxEntries <= 0 {
		return nil, cerrors.ErrInvalidMaxEntries
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	if c.sweepInterval > 0 {
		c.wg.Add(1)
		go c.sweeper()
	}
	return c, nil
}

// Get implements Cache.Get. A stale entry is removed and reported as a
// miss; a true miss has no side effect.
func (c *ResponseCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var span trace.Span
	if c.traceEnabled {
		_, span = tracer.Start(ctx, "ResponseCache.Get")
		defer span.End()
	}
	if c.latencyHist != nil {
		defer func(start time.Time) {
			c.latencyHist.Observe(time.Since(start).Seconds())
		}(time.Now())
	}
	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}

	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		c.recordMiss(span)
		return zero, false, nil
	}
	if time.Since(e.insertedAt) >= c.ttl {
		c.removeLocked(key, e)
		c.mu.Unlock()
		if c.evictionCounter != nil {
			c.evictionCounter.Inc()
		}
		c.recordMiss(span)
		return zero, false, nil
	}
	c.mu.Unlock()

	c.hits.Add(1)
	if c.hitCounter != nil {
		c.hitCounter.Inc()
	}
	if c.traceEnabled {
		span.SetAttributes(attribute.String("respcache.result", "hit"))
	}
	return e.value, true, nil
}

// Set implements Cache.Set. Overwriting an existing key does not count as
// growth; inserting a new key into a full cache evicts the oldest
// surviving insertion first.
func (c *ResponseCache[T]) Set(ctx context.Context, key string, value T) error {
	var span trace.Span
	if c.traceEnabled {
		_, span = tracer.Start(ctx, "ResponseCache.Set")
		defer span.End()
	}
	if c.latencyHist != nil {
		defer func(start time.Time) {
			c.latencyHist.Observe(time.Since(start).Seconds())
		}(time.Now())
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.value = value
		e.insertedAt = now
		c.items[key] = e
		// The refreshed entry re-enters the eviction order at the back.
		c.order.MoveToBack(e.element)
		return nil
	}
	if len(c.items) >= c.maxEntries {
		if oldest := c.order.Front(); oldest != nil {
			k := oldest.Value.(string)
			c.removeLocked(k, c.items[k])
			if c.evictionCounter != nil {
				c.evictionCounter.Inc()
			}
		}
	}
	elem := c.order.PushBack(key)
	c.items[key] = entry[T]{value: value, insertedAt: now, element: elem}
	return nil
}

// Invalidate implements Cache.Invalidate.
func (c *ResponseCache[T]) Invalidate(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.removeLocked(key, e)
		if c.evictionCounter != nil {
			c.evictionCounter.Inc()
		}
	}
	return nil
}

func (c *ResponseCache[T]) recordMiss(span trace.Span) {
	c.misses.Add(1)
	if c.missCounter != nil {
		c.missCounter.Inc()
	}
	if c.traceEnabled {
		span.SetAttributes(attribute.String("respcache.result", "miss"))
	}
}

// removeLocked drops an entry from both the map and the order list. The
// caller must hold mu.
func (c *ResponseCache[T]) removeLocked(key string, e entry[T]) {
	c.order.Remove(e.element)
	delete(c.items, key)
}

// sweeper periodically removes every entry older than the TTL. Lazy expiry
// in Get masks its absence for keys that are read again; the sweep bounds
// memory when keys never are.
func (c *ResponseCache[T]) sweeper() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.sweep(time.Now()); removed > 0 {
				c.logger.Debug("respcache: sweep removed expired entries", "removed", removed)
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// sweep removes entries whose age at now meets or exceeds the TTL and
// reports how many were dropped. The store is small (bounded by
// maxEntries), so a full scan under the lock is fine.
func (c *ResponseCache[T]) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.items {
		if now.Sub(e.insertedAt) >= c.ttl {
			c.removeLocked(k, e)
			removed++
		}
	}
	if removed > 0 && c.evictionCounter != nil {
		c.evictionCounter.Add(float64(removed))
	}
	return removed
}

// Close stops the background sweeper and drops all entries. No background
// work outlives the cache after Close returns.
func (c *ResponseCache[T]) Close() {
	c.cancel()
	c.wg.Wait()
	c.mu.Lock()
	c.items = make(map[string]entry[T])
	c.order.Init()
	c.mu.Unlock()
}

// Stats reports basic counters about cache usage.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Stats returns current usage counters for the cache.
func (c *ResponseCache[T]) Stats() Stats {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   size,
	}
}
