package csvout

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"fredrecon/internal/fred/dataset"
	"fredrecon/internal/fred/reconcile"

	"github.com/shopspring/decimal"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteMerged(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date, _ := time.Parse("2006-01-02", "2021-01-01")
	records := []dataset.MergedRecord{{
		SeriesID: "M1NS", Date: date, Year: 2021, Month: 1, Value: "16.0",
		RealtimeStart: date, RealtimeEnd: date,
		Title: "M1 Money Stock", Frequency: "Monthly", SeasonalAdjustmentShort: "NSA",
		ReleaseID: 21, ReleaseName: "H.6 Money Stock Measures",
	}}

	path, err := w.WriteMerged(records, time.Now())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[1][0] != "M1NS" || rows[1][1] != "2021-01-01" || rows[1][11] != "H.6 Money Stock Measures" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestWriteReconciliationAbsentCellsStayEmpty(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date, _ := time.Parse("2006-01-02", "2021-01-01")
	res := reconcile.Result{
		ComponentTitles: []string{"Currency Component of M1", "Demand Deposits"},
		Rows: []reconcile.Row{{
			Date: date,
			Components: map[string]decimal.Decimal{
				"Demand Deposits": decimal.RequireFromString("10.0"),
			},
			CalculatedTotal: decimal.RequireFromString("10.0"),
			PulledTotal:     decimal.RequireFromString("16.0"),
			Difference:      decimal.RequireFromString("-6.0"),
		}},
	}

	path, err := w.WriteReconciliation(res, time.Now())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	header := rows[0]
	want := []string{"date", "Currency Component of M1", "Demand Deposits", "calculated_total", "pulled_total", "difference"}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d]: got %q, want %q", i, header[i], want[i])
		}
	}
	// The currency component had no data for the date: empty cell, not zero.
	if rows[1][1] != "" {
		t.Errorf("absent component cell: got %q, want empty", rows[1][1])
	}
	for i, want := range map[int]string{3: "10", 4: "16", 5: "-6"} {
		got, err := decimal.NewFromString(rows[1][i])
		if err != nil {
			t.Fatalf("cell %d not a decimal: %q", i, rows[1][i])
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("cell %d: got %s, want %s", i, got, want)
		}
	}
}
