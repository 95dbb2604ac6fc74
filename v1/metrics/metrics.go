package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// LoadCounter tracks the number of Load operations.
	LoadCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "respcache_load_total",
		Help: "Total number of cache load operations",
	})
	// FetchCounter tracks upstream fetches triggered by cache misses.
	FetchCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "respcache_fetch_total",
		Help: "Total number of upstream fetches on cache miss",
	})
	// SetCounter tracks cache population after a successful fetch.
	SetCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "respcache_set_total",
		Help: "Total number of cache population writes",
	})
	// InvalidateCounter tracks explicit invalidations.
	InvalidateCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "respcache_invalidate_total",
		Help: "Total number of cache invalidations",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers respcache core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoadCounter, FetchCounter, SetCounter, InvalidateCounter)
}
