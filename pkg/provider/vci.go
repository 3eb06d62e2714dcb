package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VCI quote API endpoints.
const (
	DefaultVCIBaseURL = "https://trading.vietcap.com.vn/api"

	historyPath    = "/chart/OHLCChart/gap-chart"
	allSymbolsPath = "/price/symbols/getAll"
	priceBoardPath = "/price/symbols/getList"
	chartPath      = "/chart/OHLCChart/gap"

	vciProvider = "vci"
	dateLayout  = "2006-01-02"
)

// Chart time frames.
const (
	TimeFrameDay    = "ONE_DAY"
	TimeFrameMinute = "ONE_MINUTE"
)

// VCIClient calls the VCI quote endpoints.
type VCIClient struct {
	rest *restClient
	now  func() time.Time
}

// NewVCIClient creates a quote client. An empty BaseURL selects DefaultVCIBaseURL.
func NewVCIClient(cfg Config) *VCIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultVCIBaseURL
	}
	return &VCIClient{
		rest: newRESTClient(vciProvider, cfg),
		now:  time.Now,
	}
}

type chartRequest struct {
	TimeFrame string   `json:"timeFrame"`
	Symbols   []string `json:"symbols"`
	From      int64    `json:"from"`
	To        int64    `json:"to"`
}

// History fetches daily bars for params.Symbols between Start and End (both inclusive).
func (c *VCIClient) History(ctx context.Context, params HistoryParams) ([]RawHistoryEntry, error) {
	from, to, err := c.historyRange(params.Start, params.End)
	if err != nil {
		return nil, err
	}

	body := chartRequest{
		TimeFrame: TimeFrameDay,
		Symbols:   params.Symbols,
		From:      from,
		To:        to,
	}

	var entries []RawHistoryEntry
	if err := c.rest.do(ctx, "history", http.MethodPost, historyPath, body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// historyRange converts calendar days to Unix seconds. The end bound is
// exclusive midnight after End, or now when End is empty.
func (c *VCIClient) historyRange(start, end string) (int64, int64, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, 0, fmt.Errorf("parse start date %q: %w", start, err)
	}

	if end == "" {
		return s.Unix(), c.now().Unix(), nil
	}

	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, 0, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if e.Before(s) {
		return 0, 0, fmt.Errorf("end date %s before start date %s", end, start)
	}
	return s.Unix(), e.AddDate(0, 0, 1).Unix(), nil
}

// AllSymbols returns the listed symbol catalogue exactly as the upstream sends it.
func (c *VCIClient) AllSymbols(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.rest.do(ctx, "symbols", http.MethodGet, allSymbolsPath, nil, &raw); err != nil {
		return nil, err
	}
	if isEmptyJSON(raw) {
		return nil, c.rest.shape("symbols", "empty symbol list")
	}
	return raw, nil
}

// PriceBoard returns the current price rows for symbols.
func (c *VCIClient) PriceBoard(ctx context.Context, symbols []string) ([]PriceBoardEntry, error) {
	body := struct {
		Symbols []string `json:"symbols"`
	}{Symbols: symbols}

	var rows []PriceBoardEntry
	if err := c.rest.do(ctx, "prices", http.MethodPost, priceBoardPath, body, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []PriceBoardEntry{}
	}
	return rows, nil
}

// Close releases idle connections.
func (c *VCIClient) Close() error {
	return c.rest.close()
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := string(raw)
	return len(raw) == 0 || s == "null" || s == "[]" || s == "{}"
}
