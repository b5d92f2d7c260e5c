package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compute",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by result (hit or miss).",
	}, []string{"result"})

	loadErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "compute",
		Subsystem: "cache",
		Name:      "load_errors_total",
		Help:      "Loader failures in GetOrLoad. Failed loads are not cached.",
	})

	evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "compute",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Entries removed by expiry, deletion or Clear.",
	})
)

// Collectors returns the cache metrics for registration, e.g.
// prometheus.MustRegister(cache.Collectors()...).
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{lookupsTotal, loadErrorsTotal, evictionsTotal}
}
