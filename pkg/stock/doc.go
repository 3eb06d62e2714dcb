// Package stock implements the read-through cache in front of the market data
// providers.
//
// Every operation derives its cache key from its parameters, serves a hit
// from the store, and on a miss fetches from the responsible provider,
// normalizes the payload and writes it back with the operation's TTL before
// returning. There is no per-key locking: concurrent misses on one key may
// both fetch, and the second write overwrites the first with equivalent data.
//
// Provider failures follow a fixed per-operation policy:
//
//	History, AllSymbols, PriceBoard, ChartMarket   returned as errors
//	SymbolsByIndustries                            empty list
//	PartialIndustryData, IndustryCodes             empty {"data": []} payload
//
// ChartMarket is a passthrough and never cached.
package stock
