package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests tracks requests served, by route and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchfork",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration tracks request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pitchfork",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// Mutations tracks subscriber writes by operation and result (ok, error)
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchfork",
			Subsystem: "subscriber",
			Name:      "mutations_total",
			Help:      "Subscriber create/update/delete operations",
		},
		[]string{"op", "result"},
	)
)
