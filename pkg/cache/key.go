package cache

import (
	"strings"
)

// KeyPrefix is the namespace shared by every stock-data cache key.
const KeyPrefix = "stock"

// symbolSeparator joins symbol lists inside a key.
const symbolSeparator = "_"

// Key identifies a cached result of one operation.
type Key struct {
	// Operation selects the namespace and the TTL.
	Operation Operation

	// Parts are appended after the operation, in order. Empty parts are
	// kept so that e.g. a missing end date still occupies its position.
	Parts []string
}

// String renders the key.
// Format: stock:operation[:part1[:part2...]]
//
// Example:
//
//	stock:history:VNM_FPT:2023-01-01:
func (k Key) String() string {
	parts := make([]string, 0, len(k.Parts)+2)
	parts = append(parts, KeyPrefix, string(k.Operation))
	parts = append(parts, k.Parts...)
	return strings.Join(parts, ":")
}

// JoinSymbols joins symbols in caller order. The list is not sorted.
func JoinSymbols(symbols []string) string {
	return strings.Join(symbols, symbolSeparator)
}

// HistoryKey returns the key for a history request. endDate may be empty.
func HistoryKey(symbols []string, startDate, endDate string) Key {
	return Key{
		Operation: OpHistory,
		Parts:     []string{JoinSymbols(symbols), startDate, endDate},
	}
}

// SymbolsKey returns the key of the full symbol directory.
func SymbolsKey() Key {
	return Key{Operation: OpSymbols}
}

// PricesKey returns the key of a price board for exactly this symbol list.
func PricesKey(symbols []string) Key {
	return Key{
		Operation: OpPrices,
		Parts:     []string{JoinSymbols(symbols)},
	}
}

// IndustriesKey returns the key of the full industry grouping.
func IndustriesKey() Key {
	return Key{Operation: OpIndustries}
}

// PartialIndustriesKey returns the key of a filtered industry listing.
// An empty industry name renders as "all", no fields as "default".
func PartialIndustriesKey(industryName string, fields []string) Key {
	name := industryName
	if name == "" {
		name = "all"
	}
	fieldPart := "default"
	if len(fields) > 0 {
		fieldPart = strings.Join(fields, symbolSeparator)
	}
	return Key{
		Operation: OpPartialIndustries,
		Parts:     []string{name, fieldPart},
	}
}

// IndustryCodesKey returns the key of the ICB code list.
func IndustryCodesKey() Key {
	return Key{Operation: OpIndustryCodes}
}
