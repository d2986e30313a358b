package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	DetectResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voiceguard_detect_results_total",
			Help: "Detect requests by outcome category (classification label on success)",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voiceguard_upstream_duration_seconds",
			Help:    "Latency of the model call",
			Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"engine", "model"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, DetectResultsTotal, UpstreamDuration)
}
