// Package metrics exposes the Prometheus scrape handler of the
// stock cache. Metrics are defined in their respective packages (cache,
// provider, stock, ratelimit) and registered via promauto.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/stock, pkg/cache):
//   - vnstock_cache_hits_total{operation} (Counter): Read-through hits by operation
//   - vnstock_cache_misses_total{operation} (Counter): Read-through misses by operation
//   - vnstock_cache_errors_total{operation} (Counter): Store errors (get, set, delete)
//   - vnstock_cache_written_bytes_total (Counter): Bytes written to the store
//   - vnstock_cache_expired_total (Counter): Entries found past their expiry on read
//
// Upstream Metrics (pkg/provider):
//   - vnstock_upstream_requests_total{provider, operation, status} (Counter): Requests by HTTP status
//   - vnstock_upstream_request_duration_seconds{provider, operation} (Histogram): Request duration
//   - vnstock_upstream_errors_total{provider, kind} (Counter): Errors by kind (upstream_fetch, upstream_shape)
//
// Fallback Metrics (pkg/stock):
//   - vnstock_fallback_responses_total{operation} (Counter): Empty results served after provider failures
//
// Throttle Metrics (pkg/ratelimit):
//   - vnstock_throttled_requests_total (Counter): API requests rejected with 429
//   - vnstock_throttle_errors_total (Counter): Throttle checks that failed open
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(vnstock_cache_hits_total[5m])) /
//   (sum(rate(vnstock_cache_hits_total[5m])) + sum(rate(vnstock_cache_misses_total[5m])))
//
//   # Upstream Error Rate by Provider
//   sum by (provider) (rate(vnstock_upstream_errors_total[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(vnstock_upstream_request_duration_seconds_bucket[5m]))
//
//   # Silent Fallbacks
//   rate(vnstock_fallback_responses_total[5m]) > 0
