package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for request throttling.
var (
	throttledRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vnstock_throttled_requests_total",
		Help: "Total number of API requests rejected by the throttle",
	})

	throttleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vnstock_throttle_errors_total",
		Help: "Total number of throttle checks that failed and let the request through",
	})
)

// Throttle counts requests per client in fixed Redis windows.
type Throttle struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewThrottle creates a throttle allowing limit requests per window.
// Non-positive values fall back to DefaultLimit and DefaultWindow.
func NewThrottle(redisClient *redis.Client, limit int, window time.Duration, logger zerolog.Logger) *Throttle {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &Throttle{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// windowKey returns the counter key and end of the window containing now.
func (t *Throttle) windowKey(client string, now time.Time) (string, time.Time) {
	start := now.Truncate(t.window)
	return fmt.Sprintf("%s:%s:%d", KeyPrefix, client, start.Unix()), start.Add(t.window)
}

// Allow records one request from client and reports whether it is within budget.
// On a Redis failure the request is allowed and the error is returned for logging.
func (t *Throttle) Allow(ctx context.Context, client string) (Decision, error) {
	key, resetAt := t.windowKey(client, t.now())

	// INCR and EXPIRE in one transaction so no counter is left without a TTL
	pipe := t.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)

	if _, err := pipe.Exec(ctx); err != nil {
		throttleErrorsTotal.Inc()
		return Decision{Allowed: true, Limit: t.limit, ResetAt: resetAt}, fmt.Errorf("throttle counter: %w", err)
	}

	d := Decision{
		Allowed: incr.Val() <= t.limit,
		Count:   incr.Val(),
		Limit:   t.limit,
		ResetAt: resetAt,
	}

	if !d.Allowed {
		throttledRequestsTotal.Inc()
		t.logger.Warn().
			Str("client", client).
			Int64("count", d.Count).
			Int64("limit", d.Limit).
			Time("reset_at", d.ResetAt).
			Msg("Request throttled")
	}

	return d, nil
}
