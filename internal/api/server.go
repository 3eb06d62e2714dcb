// Package api exposes the stock service over HTTP.
//
// Routes live under /<prefix>/stock and answer with the Response envelope.
// Stock routes are throttled per client IP; /health, /ready and /metrics
// are not.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/vnstock-cache/pkg/metrics"
	"github.com/Sternrassler/vnstock-cache/pkg/normalize"
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
	"github.com/Sternrassler/vnstock-cache/pkg/ratelimit"
	"github.com/Sternrassler/vnstock-cache/pkg/stock"
)

// StockService is the set of operations the API serves.
type StockService interface {
	History(ctx context.Context, req stock.HistoryRequest) ([][]normalize.HistoryRecord, error)
	AllSymbols(ctx context.Context) (json.RawMessage, error)
	PriceBoard(ctx context.Context, symbols []string) ([]provider.PriceBoardEntry, error)
	SymbolsByIndustries(ctx context.Context) []normalize.IndustryGroup
	PartialIndustryData(ctx context.Context, industryName string, fields []string) stock.Payload[provider.CompanyRecord]
	IndustryCodes(ctx context.Context) stock.Payload[provider.IndustryCode]
	ChartMarket(ctx context.Context, req stock.ChartRequest) (json.RawMessage, error)
	ClearCache(ctx context.Context, kind stock.ClearKind, symbols []string) (stock.ClearResult, error)
}

// Throttler decides whether a client may make another request.
type Throttler interface {
	Allow(ctx context.Context, client string) (ratelimit.Decision, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ StockService = (*stock.Service)(nil)
	_ Throttler    = (*ratelimit.Throttle)(nil)
)

const readyTimeout = 2 * time.Second

// Server holds the HTTP handlers.
type Server struct {
	stock    StockService
	throttle Throttler
	ready    Pinger
	prefix   string
	logger   zerolog.Logger
}

// NewServer creates the API server. throttle and ready may be nil, which
// disables throttling and makes /ready always succeed.
func NewServer(svc StockService, throttle Throttler, ready Pinger, prefix string, logger zerolog.Logger) *Server {
	if svc == nil {
		panic("stock service cannot be nil")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}
	return &Server{
		stock:    svc,
		throttle: throttle,
		ready:    ready,
		prefix:   prefix,
		logger:   logger,
	}
}

// RegisterRoutes registers all routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	base := s.prefix + "/stock"

	stockRoutes := map[string]http.HandlerFunc{
		"GET " + base + "/history":            s.handleHistory,
		"GET " + base + "/symbols":            s.handleSymbols,
		"GET " + base + "/prices":             s.handlePrices,
		"POST " + base + "/prices":            s.handlePrices,
		"GET " + base + "/industries":         s.handleIndustries,
		"GET " + base + "/industries/partial": s.handlePartialIndustries,
		"GET " + base + "/industries/codes":   s.handleIndustryCodes,
		"POST " + base + "/chart/market":      s.handleChartMarket,
		"DELETE " + base + "/cache/{type}":    s.handleClearCache,
	}
	for pattern, h := range stockRoutes {
		mux.Handle(pattern, s.throttled(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the routed handler wrapped in request logging and
// panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.recoverer(s.requestLogger(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			writeError(w, s.logger, http.StatusServiceUnavailable, "Cache unavailable", err.Error())
			return
		}
	}
	writeSuccess(w, s.logger, map[string]string{"status": "ready"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, s.logger, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
}
