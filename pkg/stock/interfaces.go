package stock

import (
	"context"
	"encoding/json"

	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

// QuoteProvider serves price data.
type QuoteProvider interface {
	History(ctx context.Context, params provider.HistoryParams) ([]provider.RawHistoryEntry, error)
	AllSymbols(ctx context.Context) (json.RawMessage, error)
	PriceBoard(ctx context.Context, symbols []string) ([]provider.PriceBoardEntry, error)
}

// DirectoryProvider serves the company directory and index charts.
type DirectoryProvider interface {
	CompaniesListingInfo(ctx context.Context, fields []string) ([]provider.CompanyRecord, error)
	IndustryCodeList(ctx context.Context) ([]provider.IndustryCode, error)
	ChartOHLC(ctx context.Context, params provider.ChartParams) (json.RawMessage, error)
}

// ClassificationProvider serves the sector classification.
type ClassificationProvider interface {
	IndustryList(ctx context.Context) ([]provider.SectorIndustry, error)
	TickerList(ctx context.Context) ([]provider.SectorTicker, error)
}

var (
	_ QuoteProvider          = (*provider.VCIClient)(nil)
	_ DirectoryProvider      = (*provider.DirectoryClient)(nil)
	_ ClassificationProvider = (*provider.TCBSClient)(nil)
)
