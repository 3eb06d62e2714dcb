package normalize

import (
	"testing"

	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

func TestHistory_SortsReversedInput(t *testing.T) {
	raw := []provider.RawHistoryEntry{{
		Symbol: "VNM",
		T:      []string{"1672617600", "1672531200"},
		O:      []float64{102, 100},
		H:      []float64{106, 105},
		L:      []float64{101, 99},
		C:      []float64{104, 103},
		V:      []float64{1200, 1000},
	}}

	got, err := History(raw)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	want := []HistoryRecord{
		{Date: "2023-01-01", Open: 100, High: 105, Low: 99, Close: 103, Volume: 1000},
		{Date: "2023-01-02", Open: 102, High: 106, Low: 101, Close: 104, Volume: 1200},
	}

	if len(got) != 1 || len(got[0]) != len(want) {
		t.Fatalf("History() = %+v, want [%+v]", got, want)
	}
	for i := range want {
		if got[0][i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[0][i], want[i])
		}
	}
}

func TestHistory_AnyInputOrder(t *testing.T) {
	// 2023-01-01, 2023-01-02, 2023-01-03
	days := []string{"1672531200", "1672617600", "1672704000"}
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {2, 0, 1}}

	for _, order := range orders {
		entry := provider.RawHistoryEntry{Symbol: "FPT"}
		for _, i := range order {
			entry.T = append(entry.T, days[i])
			entry.O = append(entry.O, float64(i))
			entry.H = append(entry.H, float64(i))
			entry.L = append(entry.L, float64(i))
			entry.C = append(entry.C, float64(i))
			entry.V = append(entry.V, float64(i))
		}

		got, err := History([]provider.RawHistoryEntry{entry})
		if err != nil {
			t.Fatalf("order %v: %v", order, err)
		}
		for i, rec := range got[0] {
			if rec.Open != float64(i) {
				t.Errorf("order %v: position %d has open %v, want %d", order, i, rec.Open, i)
			}
			if i > 0 && got[0][i-1].Date > rec.Date {
				t.Errorf("order %v: dates not ascending at %d", order, i)
			}
		}
	}
}

func TestHistory_SameDayKeepsArrayOrder(t *testing.T) {
	// Two timestamps inside 2023-01-01 UTC, listed after a later day
	raw := []provider.RawHistoryEntry{{
		T: []string{"1672617600", "1672531200", "1672574400"},
		O: []float64{3, 1, 2},
		H: []float64{0, 0, 0},
		L: []float64{0, 0, 0},
		C: []float64{0, 0, 0},
		V: []float64{0, 0, 0},
	}}

	got, err := History(raw)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	for i, want := range []float64{1, 2, 3} {
		if got[0][i].Open != want {
			t.Errorf("position %d open = %v, want %v", i, got[0][i].Open, want)
		}
	}
}

func TestHistory_MultipleEntriesKeepOrder(t *testing.T) {
	raw := []provider.RawHistoryEntry{
		{Symbol: "VNM", T: []string{"1672531200"}, O: []float64{1}, H: []float64{1}, L: []float64{1}, C: []float64{1}, V: []float64{1}},
		{Symbol: "FPT"},
		{Symbol: "HPG", T: []string{"1672531200"}, O: []float64{3}, H: []float64{3}, L: []float64{3}, C: []float64{3}, V: []float64{3}},
	}

	got, err := History(raw)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0][0].Open != 1 || got[2][0].Open != 3 {
		t.Errorf("entry order not preserved: %+v", got)
	}
	if got[1] == nil || len(got[1]) != 0 {
		t.Errorf("empty timestamps should give an empty sequence, got %#v", got[1])
	}
}

func TestHistory_Empty(t *testing.T) {
	got, err := History(nil)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("History(nil) = %#v, want empty slice", got)
	}
}

func TestHistory_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry provider.RawHistoryEntry
	}{
		{
			name: "short volume column",
			entry: provider.RawHistoryEntry{
				Symbol: "VNM",
				T:      []string{"1672531200", "1672617600"},
				O:      []float64{1, 2},
				H:      []float64{1, 2},
				L:      []float64{1, 2},
				C:      []float64{1, 2},
				V:      []float64{1},
			},
		},
		{
			name: "timestamp not numeric",
			entry: provider.RawHistoryEntry{
				Symbol: "VNM",
				T:      []string{"2023-01-01"},
				O:      []float64{1},
				H:      []float64{1},
				L:      []float64{1},
				C:      []float64{1},
				V:      []float64{1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := History([]provider.RawHistoryEntry{tt.entry})
			if provider.KindOf(err) != provider.KindShape {
				t.Errorf("KindOf() = %q, want %q (err=%v)", provider.KindOf(err), provider.KindShape, err)
			}
		})
	}
}
