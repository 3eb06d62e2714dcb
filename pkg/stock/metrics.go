package stock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnstock_cache_hits_total",
			Help: "Total number of cache hits by operation",
		},
		[]string{"operation"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnstock_cache_misses_total",
			Help: "Total number of cache misses by operation",
		},
		[]string{"operation"},
	)

	// fallbackResponses counts provider failures answered with an empty payload
	fallbackResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnstock_fallback_responses_total",
			Help: "Total number of empty fallback responses served after provider failures",
		},
		[]string{"operation"},
	)
)
