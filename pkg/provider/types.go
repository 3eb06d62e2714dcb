package provider

// HistoryParams selects daily bars for a list of symbols.
type HistoryParams struct {
	Symbols []string
	// Start is the first calendar day (YYYY-MM-DD), inclusive.
	Start string
	// End is the last calendar day, inclusive. Empty means up to now.
	End string
}

// RawHistoryEntry is one symbol's columnar series as the quote API returns it.
// All arrays have the same length; index i describes day i.
type RawHistoryEntry struct {
	Symbol string    `json:"symbol"`
	O      []float64 `json:"o"`
	H      []float64 `json:"h"`
	L      []float64 `json:"l"`
	C      []float64 `json:"c"`
	V      []float64 `json:"v"`
	// T holds Unix seconds encoded as decimal strings.
	T []string `json:"t"`
}

// PriceBoardEntry is a price board row, passed through unchanged.
type PriceBoardEntry struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
}

// CompanyRecord is one CompaniesListingInfo row. The GraphQL field set is
// chosen by the caller, so the record is kept as a field map.
type CompanyRecord map[string]any

// Field returns a string field, or "" when absent or not a string.
func (c CompanyRecord) Field(name string) string {
	v, _ := c[name].(string)
	return v
}

// Ticker returns the ticker field.
func (c CompanyRecord) Ticker() string {
	return c.Field("ticker")
}

// IndustryCode is one ICB classification code.
type IndustryCode struct {
	IcbCode   string `json:"icbCode"`
	Level     int    `json:"level"`
	IcbName   string `json:"icbName"`
	EnIcbName string `json:"enIcbName"`
}

// ChartParams selects intraday chart data for market indices.
type ChartParams struct {
	Symbols   []string
	TimeFrame string
	From      int64 // Unix seconds
	To        int64 // Unix seconds
}

// SectorIndustry is one industry of the classification API with its member tickers.
type SectorIndustry struct {
	IndustryName string   `json:"industryName"`
	Tickers      []string `json:"tickers"`
}

// SectorTicker is one listed ticker of the classification API.
type SectorTicker struct {
	Ticker    string `json:"ticker"`
	OrganName string `json:"organName"`
}

// Field sets requested from CompaniesListingInfo.
var (
	// DefaultCompanyFields is used by partial industry listings when the caller names none.
	DefaultCompanyFields = []string{"ticker", "organName", "icbName4", "comTypeCode"}

	// IndustryGroupFields is the field set needed to group companies by industry.
	IndustryGroupFields = []string{"ticker", "organName", "enOrganName", "icbName4", "enIcbName4", "comTypeCode"}
)
