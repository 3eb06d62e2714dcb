package provider

import (
	"context"
	"net/http"
)

// DefaultTCBSBaseURL is the sector-classification API root.
const DefaultTCBSBaseURL = "https://apipubaws.tcbs.com.vn/tcanalysis/v1"

const tcbsProvider = "tcbs"

// TCBSClient reads the sector classification: industries with their member
// tickers and the listed ticker directory.
type TCBSClient struct {
	rest *restClient
}

// NewTCBSClient creates a classification client. An empty BaseURL selects DefaultTCBSBaseURL.
func NewTCBSClient(cfg Config) *TCBSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTCBSBaseURL
	}
	return &TCBSClient{rest: newRESTClient(tcbsProvider, cfg)}
}

// IndustryList returns every industry with its tickers.
func (c *TCBSClient) IndustryList(ctx context.Context) ([]SectorIndustry, error) {
	var industries []SectorIndustry
	if err := c.rest.do(ctx, "industry_list", http.MethodGet, "/industry", nil, &industries); err != nil {
		return nil, err
	}
	if len(industries) == 0 {
		return nil, c.rest.shape("industry_list", "empty industry list")
	}
	return industries, nil
}

// TickerList returns the listed tickers in directory order.
func (c *TCBSClient) TickerList(ctx context.Context) ([]SectorTicker, error) {
	var envelope struct {
		Data []SectorTicker `json:"data"`
	}
	if err := c.rest.do(ctx, "ticker_list", http.MethodGet, "/ticker", nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, c.rest.shape("ticker_list", "empty ticker list")
	}
	return envelope.Data, nil
}

// Close releases idle connections.
func (c *TCBSClient) Close() error {
	return c.rest.close()
}
