package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query metrics are registered explicitly from the composition root (no init()).
var (
	// QueriesTotal counts executed searches by collection and outcome.
	QueriesTotal *prometheus.CounterVec

	// QueryDuration observes backend search round-trip latency.
	QueryDuration *prometheus.HistogramVec

	// RecordCacheTotal counts record-cache lookups by result ("hit"/"miss").
	RecordCacheTotal *prometheus.CounterVec
)

// RegisterQueryMetrics creates and registers the query metrics.
func RegisterQueryMetrics() {
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrkit",
			Name:      "queries_total",
			Help:      "Total number of executed search queries",
		},
		[]string{"collection", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solrkit",
			Name:      "query_duration_seconds",
			Help:      "Search backend round-trip duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"collection"},
	)

	RecordCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrkit",
			Name:      "record_cache_total",
			Help:      "Record cache lookups by result",
		},
		[]string{"result"},
	)

	prometheus.MustRegister(QueriesTotal, QueryDuration, RecordCacheTotal)
}
