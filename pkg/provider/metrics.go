package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnstock_upstream_requests_total",
		Help: "Total upstream requests by provider, operation and status",
	}, []string{"provider", "operation", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vnstock_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by provider and operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"provider", "operation"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vnstock_upstream_errors_total",
		Help: "Total upstream errors by provider and kind",
	}, []string{"provider", "kind"})
)
