// Package normalize turns upstream payloads into the row-oriented shapes
// served to clients. All functions are pure.
package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Sternrassler/vnstock-cache/pkg/provider"
)

const dateLayout = "2006-01-02"

// HistoryRecord is one trading day of one symbol.
type HistoryRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// History pivots columnar history into per-symbol rows sorted ascending by
// date. The result has one sequence per input entry, in input order. Rows
// sharing a date keep their array order.
func History(raw []provider.RawHistoryEntry) ([][]HistoryRecord, error) {
	out := make([][]HistoryRecord, 0, len(raw))
	for _, entry := range raw {
		records, err := historyRecords(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, records)
	}
	return out, nil
}

func historyRecords(entry provider.RawHistoryEntry) ([]HistoryRecord, error) {
	n := len(entry.T)
	if n == 0 {
		return []HistoryRecord{}, nil
	}
	if len(entry.O) != n || len(entry.H) != n || len(entry.L) != n || len(entry.C) != n || len(entry.V) != n {
		return nil, provider.NewShapeError("normalize", "history",
			fmt.Sprintf("%s: column lengths differ from %d timestamps", entry.Symbol, n))
	}

	records := make([]HistoryRecord, n)
	for i, ts := range entry.T {
		secs, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, provider.NewShapeError("normalize", "history",
				fmt.Sprintf("%s: invalid timestamp %q", entry.Symbol, ts))
		}
		records[i] = HistoryRecord{
			Date:   time.Unix(secs, 0).UTC().Format(dateLayout),
			Open:   entry.O[i],
			High:   entry.H[i],
			Low:    entry.L[i],
			Close:  entry.C[i],
			Volume: int64(entry.V[i]),
		}
	}

	// YYYY-MM-DD sorts lexicographically
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return records, nil
}
