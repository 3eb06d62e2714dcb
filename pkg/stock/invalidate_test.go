package stock

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Sternrassler/vnstock-cache/pkg/cache"
	"github.com/Sternrassler/vnstock-cache/pkg/logging"
)

// seedAll populates the store with one entry per operation.
func seedAll(store interface{ Seed(string, []byte) }) []string {
	keys := []string{
		"stock:symbols",
		"stock:industries",
		"stock:prices:VNM",
		"stock:prices:VNM_FPT",
		"stock:history:VNM:2023-01-01:2023-01-02",
		"stock:partial_industries:all:default",
		"stock:industry_codes",
	}
	for _, k := range keys {
		store.Seed(k, []byte(`[]`))
	}
	return keys
}

func TestService_ClearCache(t *testing.T) {
	tests := []struct {
		name        string
		kind        ClearKind
		symbols     []string
		wantResult  ClearResult
		wantDeleted []string
	}{
		{
			name:        "all clears only collection keys",
			kind:        ClearAll,
			wantResult:  ClearResult{Success: true, Message: "All stock cache cleared"},
			wantDeleted: []string{"stock:symbols", "stock:industries"},
		},
		{
			name:        "symbols",
			kind:        ClearSymbols,
			wantResult:  ClearResult{Success: true, Message: "Symbols cache cleared"},
			wantDeleted: []string{"stock:symbols"},
		},
		{
			name:        "industries",
			kind:        ClearIndustries,
			wantResult:  ClearResult{Success: true, Message: "Industries cache cleared"},
			wantDeleted: []string{"stock:industries"},
		},
		{
			name:        "prices for one symbol",
			kind:        ClearPrices,
			symbols:     []string{"VNM"},
			wantResult:  ClearResult{Success: true, Message: "Prices cache cleared for VNM"},
			wantDeleted: []string{"stock:prices:VNM"},
		},
		{
			name:        "prices for a symbol list",
			kind:        ClearPrices,
			symbols:     []string{"VNM", "FPT"},
			wantResult:  ClearResult{Success: true, Message: "Prices cache cleared for VNM, FPT"},
			wantDeleted: []string{"stock:prices:VNM_FPT"},
		},
		{
			name:       "prices without symbols deletes nothing",
			kind:       ClearPrices,
			wantResult: ClearResult{Success: true, Message: "All price caches cleared"},
		},
		{
			name:       "history with symbols deletes nothing",
			kind:       ClearHistory,
			symbols:    []string{"VNM", "FPT"},
			wantResult: ClearResult{Success: true, Message: "History cache cleared for VNM, FPT"},
		},
		{
			name:       "history without symbols is invalid",
			kind:       ClearHistory,
			wantResult: ClearResult{Success: false, Message: "Invalid cache clear request"},
		},
		{
			name:       "unknown kind is invalid",
			kind:       ClearKind("everything"),
			wantResult: ClearResult{Success: false, Message: "Invalid cache clear request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			keys := seedAll(deps.store)

			got, err := svc.ClearCache(context.Background(), tt.kind, tt.symbols)
			if err != nil {
				t.Fatalf("ClearCache failed: %v", err)
			}
			if got != tt.wantResult {
				t.Errorf("ClearCache() = %+v, want %+v", got, tt.wantResult)
			}

			deleted := deps.store.Deleted()
			if len(deleted) != len(tt.wantDeleted) {
				t.Fatalf("deleted %v, want %v", deleted, tt.wantDeleted)
			}
			for i, k := range tt.wantDeleted {
				if deleted[i] != k {
					t.Errorf("deleted[%d] = %s, want %s", i, deleted[i], k)
				}
			}

			// Everything else survives
			gone := make(map[string]bool)
			for _, k := range tt.wantDeleted {
				gone[k] = true
			}
			for _, k := range keys {
				if !gone[k] && !deps.store.Has(k) {
					t.Errorf("key %s should be untouched", k)
				}
			}
		})
	}
}

func TestService_ClearCache_Idempotent(t *testing.T) {
	svc, deps := newTestService(t)
	seedAll(deps.store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := svc.ClearCache(ctx, ClearPrices, []string{"VNM"})
		if err != nil || !got.Success {
			t.Fatalf("call %d: ClearCache() = %+v, %v", i, got, err)
		}
	}
	if deps.store.Has("stock:prices:VNM") {
		t.Error("price entry should be gone")
	}
}

func TestService_ClearCache_StoreFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.store.DeleteErr = &cache.StoreError{Op: "delete", Key: "stock:symbols", Err: errors.New("connection refused")}

	_, err := svc.ClearCache(context.Background(), ClearAll, nil)

	var storeErr *cache.StoreError
	if !errors.As(err, &storeErr) {
		t.Errorf("expected *cache.StoreError, got %v", err)
	}

	// No-op kinds never touch the store
	if got, err := svc.ClearCache(context.Background(), ClearHistory, []string{"VNM"}); err != nil || !got.Success {
		t.Errorf("history clear = %+v, %v; want success", got, err)
	}
}

func TestParseClearKind(t *testing.T) {
	for _, s := range []string{"all", "symbols", "industries", "prices", "history"} {
		k, err := ParseClearKind(s)
		if err != nil {
			t.Errorf("ParseClearKind(%q) failed: %v", s, err)
		}
		if string(k) != s {
			t.Errorf("ParseClearKind(%q) = %q", s, k)
		}
	}

	for _, s := range []string{"", "ALL", "partial_industries", "industry_codes"} {
		if _, err := ParseClearKind(s); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("ParseClearKind(%q) error = %v, want ErrInvalidRequest", s, err)
		}
	}
}

func TestService_DefaultLoggerTagsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logging.Setup(logging.Config{Level: logging.LevelInfo, Output: buf})
	t.Cleanup(func() { logging.Setup(logging.DefaultConfig()) })

	svc, _ := newTestService(t)

	if _, err := svc.ClearCache(context.Background(), ClearSymbols, nil); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"component":"stock-service"`) {
		t.Errorf("Expected component field, got %q", output)
	}
	if !strings.Contains(output, "Symbols cache cleared") {
		t.Errorf("Expected clear message, got %q", output)
	}
}
