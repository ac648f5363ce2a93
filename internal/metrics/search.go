package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscador",
			Name:      "search_requests_total",
			Help:      "Total number of relevance engine searches",
		},
		[]string{"outcome"}, // winner kind, "empty" or "failed"
	)

	SearchSourceDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buscador",
			Name:      "search_source_degraded_total",
			Help:      "Source lookups that failed or timed out and degraded to empty",
		},
		[]string{"source"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "buscador",
			Name:      "search_duration_seconds",
			Help:      "End-to-end relevance engine search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchSourceDegradedTotal)
	prometheus.MustRegister(SearchDuration)
	searchMetricsRegistered = true
}
