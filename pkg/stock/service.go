package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/vnstock-cache/pkg/cache"
	"github.com/Sternrassler/vnstock-cache/pkg/logging"
	"github.com/Sternrassler/vnstock-cache/pkg/normalize"
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

// IndustrySource selects the upstream behind SymbolsByIndustries.
type IndustrySource string

const (
	// IndustrySourceVCI groups the GraphQL company directory by icbName4.
	IndustrySourceVCI IndustrySource = "vci"

	// IndustrySourceTCBS groups the classification ticker list by its industry lists.
	IndustrySourceTCBS IndustrySource = "tcbs"
)

const dateLayout = "2006-01-02"

// ErrInvalidRequest is returned for requests missing required parameters.
var ErrInvalidRequest = errors.New("invalid request")

// Payload is the {"data": [...]} wrapper returned by the directory operations.
type Payload[T any] struct {
	Data []T `json:"data"`
}

func emptyPayload[T any]() Payload[T] {
	return Payload[T]{Data: []T{}}
}

// HistoryRequest selects daily history for a list of symbols.
type HistoryRequest struct {
	Symbols   []string
	StartDate string
	// EndDate is optional; empty means up to now.
	EndDate string
}

// ChartRequest selects intraday chart data for market indices.
type ChartRequest struct {
	Symbols []string
	From    int64 // Unix seconds
	To      int64 // Unix seconds
}

// Service is the read-through cache in front of the market data providers.
// It holds no mutable state of its own and is safe for concurrent use.
type Service struct {
	store          cache.Store
	quotes         QuoteProvider
	directory      DirectoryProvider
	classification ClassificationProvider
	industrySource IndustrySource
	logger         zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIndustrySource selects the upstream used by SymbolsByIndustries.
func WithIndustrySource(src IndustrySource) Option {
	return func(s *Service) {
		s.industrySource = src
	}
}

// WithLogger replaces the default component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service. store, quotes and directory are required;
// classification is only used with IndustrySourceTCBS.
func NewService(store cache.Store, quotes QuoteProvider, directory DirectoryProvider, classification ClassificationProvider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote provider is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory provider is required")
	}

	s := &Service{
		store:          store,
		quotes:         quotes,
		directory:      directory,
		classification: classification,
		industrySource: IndustrySourceVCI,
		logger:         logging.NewLogger("stock-service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch s.industrySource {
	case IndustrySourceVCI:
	case IndustrySourceTCBS:
		if s.classification == nil {
			return nil, fmt.Errorf("classification provider is required for industry source %q", s.industrySource)
		}
	default:
		return nil, fmt.Errorf("unknown industry source %q", s.industrySource)
	}

	return s, nil
}

// readThrough serves key from the store or, on a miss, from fetch. The fetched
// value is written back with the operation's TTL before returning. Store
// failures never fail the call: a read failure is a miss and a write failure
// only loses the cache entry.
func readThrough[T any](ctx context.Context, s *Service, key cache.Key, fetch func(context.Context) (T, error)) (T, error) {
	op := string(key.Operation)
	k := key.String()

	raw, err := s.store.Get(ctx, k)
	switch {
	case err == nil:
		var cached T
		uerr := json.Unmarshal(raw, &cached)
		if uerr == nil {
			cacheHits.WithLabelValues(op).Inc()
			s.logger.Debug().Str("operation", op).Str("key", k).Msg("Cache hit")
			return cached, nil
		}
		s.logger.Warn().Err(uerr).Str("operation", op).Str("key", k).Msg("Discarding undecodable cache value")
	case errors.Is(err, cache.ErrCacheMiss):
		s.logger.Debug().Str("operation", op).Str("key", k).Msg("Cache miss")
	default:
		s.logger.Warn().Err(err).Str("operation", op).Str("key", k).Str("error_kind", errorKind(err)).Msg("Cache read failed, fetching from provider")
	}
	cacheMisses.WithLabelValues(op).Inc()

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("encode %s result: %w", op, err)
	}

	ttl := cache.TTL(key.Operation)
	if err := s.store.Set(ctx, k, payload, ttl); err != nil {
		s.logger.Warn().Err(err).Str("operation", op).Str("key", k).Str("error_kind", errorKind(err)).Msg("Cache write failed")
	} else {
		s.logger.Debug().Str("operation", op).Str("key", k).Dur("ttl", ttl).Msg("Cached provider result")
	}

	return value, nil
}

// propagate logs a failure that is returned to the caller.
func (s *Service) propagate(op cache.Operation, err error, fields map[string]any) error {
	s.logger.Error().
		Err(err).
		Str("operation", string(op)).
		Str("error_kind", errorKind(err)).
		Fields(fields).
		Msg("Provider request failed")
	return fmt.Errorf("%s: %w", op, err)
}

// fallback logs a failure that is answered with an empty result.
func (s *Service) fallback(op cache.Operation, err error, fields map[string]any) {
	fallbackResponses.WithLabelValues(string(op)).Inc()
	ev := s.logger.Warn()
	if provider.KindOf(err) == provider.KindShape {
		// Upstream answered but without data; not an outage.
		ev = s.logger.Info()
	}
	ev.Err(err).
		Str("operation", string(op)).
		Str("error_kind", errorKind(err)).
		Fields(fields).
		Msg("Serving empty result after provider failure")
}

func errorKind(err error) string {
	if kind := provider.KindOf(err); kind != "" {
		return string(kind)
	}
	var se *cache.StoreError
	if errors.As(err, &se) {
		return cache.KindStore
	}
	return "unknown"
}

// History returns normalized daily history, one sequence per requested
// symbol. Provider failures are returned to the caller.
func (s *Service) History(ctx context.Context, req HistoryRequest) ([][]normalize.HistoryRecord, error) {
	if len(req.Symbols) == 0 || req.StartDate == "" {
		return nil, fmt.Errorf("%w: symbols and start date are required", ErrInvalidRequest)
	}
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	key := cache.HistoryKey(req.Symbols, req.StartDate, req.EndDate)

	records, err := readThrough(ctx, s, key, func(ctx context.Context) ([][]normalize.HistoryRecord, error) {
		raw, err := s.quotes.History(ctx, provider.HistoryParams{
			Symbols: req.Symbols,
			Start:   req.StartDate,
			End:     req.EndDate,
		})
		if err != nil {
			return nil, err
		}
		return normalize.History(raw)
	})
	if err != nil {
		return nil, s.propagate(cache.OpHistory, err, map[string]any{
			"symbols": strings.Join(req.Symbols, ","),
			"start":   req.StartDate,
			"end":     req.EndDate,
		})
	}

	s.logger.Info().
		Str("operation", string(cache.OpHistory)).
		Strs("symbols", req.Symbols).
		Int("series", len(records)).
		Msg("History served")
	return records, nil
}

// validateRange checks YYYY-MM-DD dates and that end, when set, is not before start.
func validateRange(start, end string) error {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidRequest, start)
	}
	if end == "" {
		return nil
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidRequest, end)
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end date %s before start date %s", ErrInvalidRequest, end, start)
	}
	return nil
}

// AllSymbols returns the listed symbol catalogue. Provider failures are
// returned to the caller.
func (s *Service) AllSymbols(ctx context.Context) (json.RawMessage, error) {
	symbols, err := readThrough(ctx, s, cache.SymbolsKey(), s.quotes.AllSymbols)
	if err != nil {
		return nil, s.propagate(cache.OpSymbols, err, nil)
	}
	return symbols, nil
}

// PriceBoard returns price rows for symbols. Provider failures are returned
// to the caller.
func (s *Service) PriceBoard(ctx context.Context, symbols []string) ([]provider.PriceBoardEntry, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: symbols are required", ErrInvalidRequest)
	}

	rows, err := readThrough(ctx, s, cache.PricesKey(symbols), func(ctx context.Context) ([]provider.PriceBoardEntry, error) {
		return s.quotes.PriceBoard(ctx, symbols)
	})
	if err != nil {
		return nil, s.propagate(cache.OpPrices, err, map[string]any{
			"symbols": strings.Join(symbols, ","),
		})
	}
	return rows, nil
}

// SymbolsByIndustries returns listed companies grouped by industry. Provider
// failures yield an empty list.
func (s *Service) SymbolsByIndustries(ctx context.Context) []normalize.IndustryGroup {
	groups, err := readThrough(ctx, s, cache.IndustriesKey(), s.fetchIndustryGroups)
	if err != nil {
		s.fallback(cache.OpIndustries, err, map[string]any{"source": string(s.industrySource)})
		return []normalize.IndustryGroup{}
	}
	return groups
}

func (s *Service) fetchIndustryGroups(ctx context.Context) ([]normalize.IndustryGroup, error) {
	if s.industrySource == IndustrySourceTCBS {
		industries, err := s.classification.IndustryList(ctx)
		if err != nil {
			return nil, err
		}
		tickers, err := s.classification.TickerList(ctx)
		if err != nil {
			return nil, err
		}
		return normalize.GroupByClassification(industries, tickers), nil
	}

	companies, err := s.directory.CompaniesListingInfo(ctx, provider.IndustryGroupFields)
	if err != nil {
		return nil, err
	}
	return normalize.GroupByIndustry(companies), nil
}

// PartialIndustryData returns companies with the requested fields, filtered
// by industry name at any classification level. Empty name and fields select
// all companies and the default field set. Provider failures yield an empty
// payload.
func (s *Service) PartialIndustryData(ctx context.Context, industryName string, fields []string) Payload[provider.CompanyRecord] {
	key := cache.PartialIndustriesKey(industryName, fields)

	payload, err := readThrough(ctx, s, key, func(ctx context.Context) (Payload[provider.CompanyRecord], error) {
		companies, err := s.directory.CompaniesListingInfo(ctx, fields)
		if err != nil {
			return Payload[provider.CompanyRecord]{}, err
		}
		filtered := normalize.FilterByIndustry(companies, industryName)
		if filtered == nil {
			filtered = []provider.CompanyRecord{}
		}
		return Payload[provider.CompanyRecord]{Data: filtered}, nil
	})
	if err != nil {
		s.fallback(cache.OpPartialIndustries, err, map[string]any{
			"industry": industryName,
			"fields":   strings.Join(fields, ","),
		})
		return emptyPayload[provider.CompanyRecord]()
	}
	return payload
}

// IndustryCodes returns the ICB classification codes. Provider failures
// yield an empty payload.
func (s *Service) IndustryCodes(ctx context.Context) Payload[provider.IndustryCode] {
	payload, err := readThrough(ctx, s, cache.IndustryCodesKey(), func(ctx context.Context) (Payload[provider.IndustryCode], error) {
		codes, err := s.directory.IndustryCodeList(ctx)
		if err != nil {
			return Payload[provider.IndustryCode]{}, err
		}
		return Payload[provider.IndustryCode]{Data: codes}, nil
	})
	if err != nil {
		s.fallback(cache.OpIndustryCodes, err, nil)
		return emptyPayload[provider.IndustryCode]()
	}
	return payload
}

// ChartMarket returns intraday index bars straight from the provider. It
// is never cached; failures are returned to the caller.
func (s *Service) ChartMarket(ctx context.Context, req ChartRequest) (json.RawMessage, error) {
	if len(req.Symbols) == 0 {
		return nil, fmt.Errorf("%w: symbols are required", ErrInvalidRequest)
	}

	chart, err := s.directory.ChartOHLC(ctx, provider.ChartParams{
		Symbols:   req.Symbols,
		TimeFrame: provider.TimeFrameMinute,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("operation", "chart").
			Str("error_kind", errorKind(err)).
			Strs("symbols", req.Symbols).
			Int64("from", req.From).
			Int64("to", req.To).
			Msg("Provider request failed")
		return nil, fmt.Errorf("chart: %w", err)
	}
	return chart, nil
}
