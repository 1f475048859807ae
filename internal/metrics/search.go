package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream search and embedding Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesearch",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream search requests",
		},
		[]string{"status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "imagesearch",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream search request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "imagesearch",
			Name:      "search_results_returned",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesearch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imagesearch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagesearch",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers upstream and embedding metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	searchMetricsRegistered = true
}
