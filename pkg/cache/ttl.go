package cache

import "time"

// Operation names a cached stock-data operation. It doubles as the key
// namespace and as a metrics label.
type Operation string

const (
	OpHistory           Operation = "history"
	OpSymbols           Operation = "symbols"
	OpPrices            Operation = "prices"
	OpIndustries        Operation = "industries"
	OpPartialIndustries Operation = "partial_industries"
	OpIndustryCodes     Operation = "industry_codes"
)

// TTL constants per operation.
const (
	TTLHistory           = time.Hour
	TTLSymbols           = 24 * time.Hour
	TTLIndustries        = 24 * time.Hour
	TTLPrices            = 5 * time.Minute
	TTLPartialIndustries = 10 * time.Minute
	TTLIndustryCodes     = 24 * time.Hour
)

var ttlByOperation = map[Operation]time.Duration{
	OpHistory:           TTLHistory,
	OpSymbols:           TTLSymbols,
	OpIndustries:        TTLIndustries,
	OpPrices:            TTLPrices,
	OpPartialIndustries: TTLPartialIndustries,
	OpIndustryCodes:     TTLIndustryCodes,
}

// TTL returns the cache lifetime for op, or 0 for an unknown operation.
// A zero TTL makes Manager.Set skip the write.
func TTL(op Operation) time.Duration {
	return ttlByOperation[op]
}
