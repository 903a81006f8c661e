package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analyzer and search Prometheus metrics.
var (
	AnalyzerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sequoyah",
			Name:      "analyzer_requests_total",
			Help:      "Total number of dependency-parse requests",
		},
		[]string{"status"},
	)

	AnalyzerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sequoyah",
			Name:      "analyzer_request_duration_seconds",
			Help:      "Dependency-parse request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		nil,
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sequoyah",
			Name:      "search_requests_total",
			Help:      "Total number of sentence search requests",
		},
		[]string{"mode", "status"}, // mode: "plain" / "lemma" / "verses"
	)

	TagMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sequoyah",
			Name:      "tag_mutations_total",
			Help:      "Total number of word tag upserts and removals",
		},
		[]string{"op"}, // "upsert" / "remove"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers analyzer and search metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalyzerRequestsTotal)
	prometheus.MustRegister(AnalyzerRequestDuration)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(TagMutationsTotal)
	domainMetricsRegistered = true
}
