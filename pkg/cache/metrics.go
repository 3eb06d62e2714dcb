package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnstock_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// CacheWrittenBytes counts bytes written to the store
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vnstock_cache_written_bytes_total",
			Help: "Total number of bytes written to the stock cache",
		},
	)

	// CacheExpired tracks entries read after their expiry
	CacheExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vnstock_cache_expired_total",
			Help: "Total number of cache entries found expired on read",
		},
	)
)
