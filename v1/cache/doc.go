// Package cache provides response caching for upstream API calls. The
// in-memory ResponseCache keeps entries for a fixed TTL, bounds its size
// with FIFO eviction and spawns a background goroutine that periodically
// sweeps expired entries. Redis and ristretto backends implement the same
// contract for deployments that need a shared or admission-managed cache.
package cache
