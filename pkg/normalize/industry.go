package normalize

import (
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

// Fallback group names for companies without a classification.
const (
	UnknownIndustry       = "Unknown"
	UncategorizedIndustry = "Uncategorized"
)

// IndustrySymbol is a company listed under an industry group.
type IndustrySymbol struct {
	Ticker      string `json:"ticker"`
	OrganName   string `json:"organName"`
	EnOrganName string `json:"enOrganName,omitempty"`
	ComTypeCode string `json:"comTypeCode,omitempty"`
}

// IndustryGroup is one industry with its member companies.
type IndustryGroup struct {
	Industry string           `json:"industry"`
	Symbols  []IndustrySymbol `json:"symbols"`
}

// groupBuilder collects groups in first-seen order.
type groupBuilder struct {
	index  map[string]int
	groups []IndustryGroup
}

func newGroupBuilder() *groupBuilder {
	return &groupBuilder{index: make(map[string]int)}
}

func (b *groupBuilder) add(industry string, sym IndustrySymbol) {
	i, ok := b.index[industry]
	if !ok {
		i = len(b.groups)
		b.index[industry] = i
		b.groups = append(b.groups, IndustryGroup{Industry: industry})
	}
	b.groups[i].Symbols = append(b.groups[i].Symbols, sym)
}

func (b *groupBuilder) result() []IndustryGroup {
	if b.groups == nil {
		return []IndustryGroup{}
	}
	return b.groups
}

// GroupByIndustry groups companies by icbName4. Companies without one land
// in the Unknown group.
func GroupByIndustry(companies []provider.CompanyRecord) []IndustryGroup {
	b := newGroupBuilder()
	for _, c := range companies {
		industry := c.Field("icbName4")
		if industry == "" {
			industry = UnknownIndustry
		}
		b.add(industry, IndustrySymbol{
			Ticker:      c.Ticker(),
			OrganName:   c.Field("organName"),
			EnOrganName: c.Field("enOrganName"),
			ComTypeCode: c.Field("comTypeCode"),
		})
	}
	return b.result()
}

// FilterByIndustry keeps companies whose icbName4, icbName3 or icbName2
// equals name. An empty name keeps everything.
func FilterByIndustry(companies []provider.CompanyRecord, name string) []provider.CompanyRecord {
	if name == "" {
		return companies
	}

	out := make([]provider.CompanyRecord, 0)
	for _, c := range companies {
		if c.Field("icbName4") == name || c.Field("icbName3") == name || c.Field("icbName2") == name {
			out = append(out, c)
		}
	}
	return out
}

// GroupByClassification groups the ticker directory by the industry lists
// of the classification API. Tickers keep directory order; tickers absent
// from every industry land in the Uncategorized group. A ticker listed under
// several industries belongs to the last one.
func GroupByClassification(industries []provider.SectorIndustry, tickers []provider.SectorTicker) []IndustryGroup {
	industryOf := make(map[string]string)
	for _, ind := range industries {
		for _, t := range ind.Tickers {
			industryOf[t] = ind.IndustryName
		}
	}

	b := newGroupBuilder()
	for _, t := range tickers {
		industry := industryOf[t.Ticker]
		if industry == "" {
			industry = UncategorizedIndustry
		}
		b.add(industry, IndustrySymbol{Ticker: t.Ticker, OrganName: t.OrganName})
	}
	return b.result()
}
