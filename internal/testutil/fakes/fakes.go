// Package fakes provides in-memory stand-ins for the cache store and the
// market data providers.
package fakes

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Sternrassler/vnstock-cache/pkg/cache"
	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

// FakeStore is an in-memory cache.Store that records calls.
type FakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	deletes []string
	sets    int

	// Injected failures
	GetErr    error
	SetErr    error
	DeleteErr error
}

var _ cache.Store = (*FakeStore)(nil)

// NewFakeStore creates an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

// Get implements cache.Store.
func (s *FakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

// Set implements cache.Store.
func (s *FakeStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.sets++
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

// Delete implements cache.Store.
func (s *FakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.deletes = append(s.deletes, key)
	delete(s.data, key)
	return nil
}

// Seed stores value under key without counting a Set.
func (s *FakeStore) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Has reports whether key is present.
func (s *FakeStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// Value returns the stored bytes for key.
func (s *FakeStore) Value(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// TTLOf returns the TTL of the last Set for key.
func (s *FakeStore) TTLOf(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttls[key]
}

// Deleted returns the keys passed to Delete, in call order.
func (s *FakeStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// SetCount returns the number of successful Set calls.
func (s *FakeStore) SetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// callCounter counts calls by method name.
type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
}

// Calls returns how often method name was invoked.
func (c *callCounter) Calls(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// FakeQuotes is a function-backed quote provider. Unset functions return empty results.
type FakeQuotes struct {
	callCounter
	HistoryFunc    func(ctx context.Context, params provider.HistoryParams) ([]provider.RawHistoryEntry, error)
	AllSymbolsFunc func(ctx context.Context) (json.RawMessage, error)
	PriceBoardFunc func(ctx context.Context, symbols []string) ([]provider.PriceBoardEntry, error)
}

// History implements stock.QuoteProvider.
func (f *FakeQuotes) History(ctx context.Context, params provider.HistoryParams) ([]provider.RawHistoryEntry, error) {
	f.inc("History")
	if f.HistoryFunc == nil {
		return nil, nil
	}
	return f.HistoryFunc(ctx, params)
}

// AllSymbols implements stock.QuoteProvider.
func (f *FakeQuotes) AllSymbols(ctx context.Context) (json.RawMessage, error) {
	f.inc("AllSymbols")
	if f.AllSymbolsFunc == nil {
		return json.RawMessage(`[]`), nil
	}
	return f.AllSymbolsFunc(ctx)
}

// PriceBoard implements stock.QuoteProvider.
func (f *FakeQuotes) PriceBoard(ctx context.Context, symbols []string) ([]provider.PriceBoardEntry, error) {
	f.inc("PriceBoard")
	if f.PriceBoardFunc == nil {
		return nil, nil
	}
	return f.PriceBoardFunc(ctx, symbols)
}

// FakeDirectory is a function-backed directory provider.
type FakeDirectory struct {
	callCounter
	CompaniesFunc     func(ctx context.Context, fields []string) ([]provider.CompanyRecord, error)
	IndustryCodesFunc func(ctx context.Context) ([]provider.IndustryCode, error)
	ChartFunc         func(ctx context.Context, params provider.ChartParams) (json.RawMessage, error)
}

// CompaniesListingInfo implements stock.DirectoryProvider.
func (f *FakeDirectory) CompaniesListingInfo(ctx context.Context, fields []string) ([]provider.CompanyRecord, error) {
	f.inc("CompaniesListingInfo")
	if f.CompaniesFunc == nil {
		return nil, nil
	}
	return f.CompaniesFunc(ctx, fields)
}

// IndustryCodeList implements stock.DirectoryProvider.
func (f *FakeDirectory) IndustryCodeList(ctx context.Context) ([]provider.IndustryCode, error) {
	f.inc("IndustryCodeList")
	if f.IndustryCodesFunc == nil {
		return nil, nil
	}
	return f.IndustryCodesFunc(ctx)
}

// ChartOHLC implements stock.DirectoryProvider.
func (f *FakeDirectory) ChartOHLC(ctx context.Context, params provider.ChartParams) (json.RawMessage, error) {
	f.inc("ChartOHLC")
	if f.ChartFunc == nil {
		return json.RawMessage(`[]`), nil
	}
	return f.ChartFunc(ctx, params)
}

// FakeClassification is a function-backed classification provider.
type FakeClassification struct {
	callCounter
	IndustryListFunc func(ctx context.Context) ([]provider.SectorIndustry, error)
	TickerListFunc   func(ctx context.Context) ([]provider.SectorTicker, error)
}

// IndustryList implements stock.ClassificationProvider.
func (f *FakeClassification) IndustryList(ctx context.Context) ([]provider.SectorIndustry, error) {
	f.inc("IndustryList")
	if f.IndustryListFunc == nil {
		return nil, nil
	}
	return f.IndustryListFunc(ctx)
}

// TickerList implements stock.ClassificationProvider.
func (f *FakeClassification) TickerList(ctx context.Context) ([]provider.SectorTicker, error) {
	f.inc("TickerList")
	if f.TickerListFunc == nil {
		return nil, nil
	}
	return f.TickerListFunc(ctx)
}

// FetchError returns a KindFetch provider error as a failing upstream would.
func FetchError(operation string) error {
	return &provider.Error{
		Provider:   "fake",
		Operation:  operation,
		Kind:       provider.KindFetch,
		StatusCode: 503,
		Message:    "503 Service Unavailable",
	}
}
