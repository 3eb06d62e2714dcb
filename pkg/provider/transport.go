package provider

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/Sternrassler/vnstock-cache/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Config holds the transport settings shared by all provider clients.
type Config struct {
	// BaseURL is the endpoint root. Paths are appended to it.
	BaseURL string

	// Timeout bounds a single upstream call. Zero means 30s.
	Timeout time.Duration

	// RateLimit paces outgoing requests per second. Zero or less disables pacing.
	RateLimit float64

	// UserAgent is sent when not empty.
	UserAgent string
}

// restClient is the request pipeline behind every provider: pacing, the
// HTTP call, status mapping and metrics.
type restClient struct {
	provider string
	http     *resty.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

func newRESTClient(provider string, cfg Config) *restClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := logging.NewLogger("provider").With().Str("provider", provider).Logger()

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if cfg.UserAgent != "" {
		hc.SetHeader("User-Agent", cfg.UserAgent)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &restClient{
		provider: provider,
		http:     hc,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// do executes one upstream call, once, and decodes a 2xx JSON body into
// result. Every failure is returned as a *Error of kind KindFetch.
func (c *restClient) do(ctx context.Context, operation, method, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.fail(operation, KindFetch, 0, "rate limiter wait", err)
	}

	start := time.Now()

	req := c.http.R().SetContext(ctx).SetResult(result)
	if body != nil {
		req.SetBody(body)
	}

	c.logger.Debug().
		Str("operation", operation).
		Str("method", method).
		Str("path", path).
		Msg("Executing upstream request")

	resp, err := req.Execute(method, path)
	upstreamRequestDuration.WithLabelValues(c.provider, operation).Observe(time.Since(start).Seconds())

	if err != nil {
		upstreamRequestsTotal.WithLabelValues(c.provider, operation, "network_error").Inc()
		c.logger.Error().Err(err).Str("operation", operation).Msg("Upstream request failed")
		return c.fail(operation, KindFetch, 0, "request failed", err)
	}

	status := resp.StatusCode()
	upstreamRequestsTotal.WithLabelValues(c.provider, operation, strconv.Itoa(status)).Inc()

	if !resp.IsSuccess() {
		c.logger.Warn().
			Str("operation", operation).
			Int("status", status).
			Msg("Upstream returned error status")
		return c.fail(operation, KindFetch, status, resp.Status(), nil)
	}

	return nil
}

// fail counts and builds a provider error.
func (c *restClient) fail(operation string, kind Kind, status int, message string, err error) *Error {
	upstreamErrorsTotal.WithLabelValues(c.provider, string(kind)).Inc()
	return &Error{
		Provider:   c.provider,
		Operation:  operation,
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// shape counts and builds a KindShape error.
func (c *restClient) shape(operation, message string) *Error {
	upstreamErrorsTotal.WithLabelValues(c.provider, string(KindShape)).Inc()
	return NewShapeError(c.provider, operation, message)
}

func (c *restClient) close() error {
	return c.http.Close()
}
