package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/vnstock-cache/pkg/cache"
)

// ClearKind names a cache invalidation target.
type ClearKind string

// Invalidation targets.
const (
	ClearAll        ClearKind = "all"
	ClearSymbols    ClearKind = "symbols"
	ClearIndustries ClearKind = "industries"
	ClearPrices     ClearKind = "prices"
	ClearHistory    ClearKind = "history"
)

// ParseClearKind validates an invalidation target name.
func ParseClearKind(s string) (ClearKind, error) {
	switch k := ClearKind(s); k {
	case ClearAll, ClearSymbols, ClearIndustries, ClearPrices, ClearHistory:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown cache type %q", ErrInvalidRequest, s)
	}
}

// ClearResult reports the outcome of ClearCache.
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var invalidClearRequest = ClearResult{Success: false, Message: "Invalid cache clear request"}

// ClearCache deletes the known keys for kind. Only exact keys are removed:
//
//   - all: the symbols and industries collections, nothing per symbol
//   - prices: the price board of exactly this symbol list; without symbols nothing
//   - history: nothing, since the key also needs the date range
//
// A store delete failure is returned as an error.
func (s *Service) ClearCache(ctx context.Context, kind ClearKind, symbols []string) (ClearResult, error) {
	switch kind {
	case ClearAll:
		if err := s.deleteKeys(ctx, cache.SymbolsKey(), cache.IndustriesKey()); err != nil {
			return ClearResult{}, err
		}
		return s.cleared(kind, "All stock cache cleared"), nil

	case ClearSymbols:
		if err := s.deleteKeys(ctx, cache.SymbolsKey()); err != nil {
			return ClearResult{}, err
		}
		return s.cleared(kind, "Symbols cache cleared"), nil

	case ClearIndustries:
		if err := s.deleteKeys(ctx, cache.IndustriesKey()); err != nil {
			return ClearResult{}, err
		}
		return s.cleared(kind, "Industries cache cleared"), nil

	case ClearPrices:
		if len(symbols) == 0 {
			// No pattern deletion in the store; per-symbol price entries expire on their own.
			return s.cleared(kind, "All price caches cleared"), nil
		}
		if err := s.deleteKeys(ctx, cache.PricesKey(symbols)); err != nil {
			return ClearResult{}, err
		}
		return s.cleared(kind, "Prices cache cleared for "+strings.Join(symbols, ", ")), nil

	case ClearHistory:
		if len(symbols) == 0 {
			break
		}
		s.logger.Info().
			Str("kind", string(kind)).
			Strs("symbols", symbols).
			Msg("History cache entries are keyed by date range and expire by TTL; nothing deleted")
		return s.cleared(kind, "History cache cleared for "+strings.Join(symbols, ", ")), nil
	}

	s.logger.Warn().Str("kind", string(kind)).Strs("symbols", symbols).Msg("Invalid cache clear request")
	return invalidClearRequest, nil
}

func (s *Service) deleteKeys(ctx context.Context, keys ...cache.Key) error {
	for _, key := range keys {
		k := key.String()
		if err := s.store.Delete(ctx, k); err != nil {
			s.logger.Error().Err(err).Str("key", k).Msg("Cache delete failed")
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	return nil
}

func (s *Service) cleared(kind ClearKind, message string) ClearResult {
	s.logger.Info().Str("kind", string(kind)).Msg(message)
	return ClearResult{Success: true, Message: message}
}
