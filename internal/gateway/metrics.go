package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus collectors registered by the gateway.
// Request counts and latency, cache hits and misses, and the trust-score
// distribution, all exposed at /metrics.
type metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
	trustScoreHist   prometheus.Histogram
}

// newMetrics registers all collectors against reg, a registry owned by the
// Server rather than the global default — so multiple Server instances
// (e.g. one per test) never collide on duplicate registration.
func newMetrics(reg *prometheus.Registry) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewtrust_requests_total",
			Help: "Total HTTP requests handled by the gateway, by route and status.",
		}, []string{"route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reviewtrust_request_duration_seconds",
			Help:    "Request handling latency in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reviewtrust_cache_hits_total",
			Help: "Total analyze requests served from the report cache.",
		}),
		cacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reviewtrust_cache_misses_total",
			Help: "Total analyze requests that required a fresh pipeline run.",
		}),
		trustScoreHist: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewtrust_trust_score",
			Help:    "Distribution of computed trust scores.",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		}),
	}
}
