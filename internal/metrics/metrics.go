package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter

	FetchesTotal  *prometheus.CounterVec // outcome: ok, status_error, transport_error, parse_error
	FetchDuration prometheus.Histogram
	SharedFetches prometheus.Counter     // waiters served by another caller's flight
	NavsTotal     *prometheus.CounterVec // result: ok, error, rejected
	NavDuration   prometheus.Histogram
}

// New creates the engine collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "softnav_cache_hits_total",
			Help: "Content cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "softnav_cache_misses_total",
			Help: "Content cache misses",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "softnav_cache_evictions_total",
			Help: "Entries evicted from the content cache",
		}),
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "softnav_fetches_total",
			Help: "Underlying page fetches by outcome",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "softnav_fetch_duration_seconds",
			Help:    "Page fetch duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		SharedFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "softnav_fetches_shared_total",
			Help: "Resolve calls served by another caller's in-flight fetch",
		}),
		NavsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "softnav_navigations_total",
			Help: "Navigation attempts by result",
		}, []string{"result"}),
		NavDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "softnav_navigation_duration_seconds",
			Help:    "Completed navigation duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}

// ObserveCacheHit records a content cache hit.
func (m *Metrics) ObserveCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// ObserveCacheMiss records a content cache miss.
func (m *Metrics) ObserveCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// ObserveEviction records a content cache eviction.
func (m *Metrics) ObserveEviction() {
	if m != nil {
		m.CacheEvictions.Inc()
	}
}

// ObserveFetch records one underlying fetch with its outcome and duration.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m != nil {
		m.FetchesTotal.WithLabelValues(outcome).Inc()
		m.FetchDuration.Observe(d.Seconds())
	}
}

// ObserveSharedFetch records a resolve served by an already-running flight.
func (m *Metrics) ObserveSharedFetch() {
	if m != nil {
		m.SharedFetches.Inc()
	}
}

// ObserveNavigation records one navigation attempt.
func (m *Metrics) ObserveNavigation(result string, d time.Duration) {
	if m != nil {
		m.NavsTotal.WithLabelValues(result).Inc()
		m.NavDuration.Observe(d.Seconds())
	}
}
