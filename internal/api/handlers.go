package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sternrassler/vnstock-cache/pkg/stock"
)

const maxBodyBytes = 1 << 20

// splitSymbols parses a comma-separated symbol list. Symbols are trimmed and
// upper-cased; their order is kept.
func splitSymbols(raw string) []string {
	return normalizeSymbols(strings.Split(raw, ","))
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", stock.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := s.stock.History(r.Context(), stock.HistoryRequest{
		Symbols:   splitSymbols(q.Get("symbols")),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeSuccess(w, s.logger, records)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.stock.AllSymbols(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeSuccess(w, s.logger, symbols)
}

type pricesBody struct {
	Symbols []string `json:"symbols"`
}

// handlePrices accepts the symbol list as a query parameter on GET or as a
// JSON body on POST.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if r.Method == http.MethodPost {
		var body pricesBody
		if err := decodeBody(r, &body); err != nil {
			s.fail(w, err)
			return
		}
		symbols = normalizeSymbols(body.Symbols)
	} else {
		symbols = splitSymbols(r.URL.Query().Get("symbols"))
	}

	board, err := s.stock.PriceBoard(r.Context(), symbols)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeSuccess(w, s.logger, board)
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.logger, s.stock.SymbolsByIndustries(r.Context()))
}

func (s *Server) handlePartialIndustries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload := s.stock.PartialIndustryData(r.Context(), q.Get("industryName"), splitFields(q.Get("fields")))
	writeSuccess(w, s.logger, payload)
}

func (s *Server) handleIndustryCodes(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.logger, s.stock.IndustryCodes(r.Context()))
}

type chartBody struct {
	Symbols  []string    `json:"symbols"`
	FromDate json.Number `json:"fromDate"`
	ToDate   json.Number `json:"toDate"`
}

// unixSeconds reads an optional numeric timestamp; fractions are truncated.
func unixSeconds(name string, n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a unix timestamp", stock.ErrInvalidRequest, name)
	}
	return int64(f), nil
}

func (s *Server) handleChartMarket(w http.ResponseWriter, r *http.Request) {
	var body chartBody
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, err)
		return
	}

	from, err := unixSeconds("fromDate", body.FromDate)
	if err != nil {
		s.fail(w, err)
		return
	}
	to, err := unixSeconds("toDate", body.ToDate)
	if err != nil {
		s.fail(w, err)
		return
	}

	chart, err := s.stock.ChartMarket(r.Context(), stock.ChartRequest{
		Symbols: normalizeSymbols(body.Symbols),
		From:    from,
		To:      to,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeSuccess(w, s.logger, chart)
}

// handleClearCache returns the ClearResult itself, not the envelope.
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	kind, err := stock.ParseClearKind(r.PathValue("type"))
	if err != nil {
		s.fail(w, err)
		return
	}

	var symbols []string
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		symbols = splitSymbols(raw)
	}

	result, err := s.stock.ClearCache(r.Context(), kind, symbols)
	if err != nil {
		if errors.Is(err, stock.ErrInvalidRequest) {
			s.fail(w, err)
			return
		}
		s.logger.Error().Err(err).Str("type", string(kind)).Msg("Cache clear failed")
		writeError(w, s.logger, http.StatusInternalServerError, "Failed to clear cache", err.Error())
		return
	}
	writeJSON(w, s.logger, http.StatusOK, result)
}
