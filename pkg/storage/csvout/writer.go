package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fredrecon/internal/fred/dataset"
	"fredrecon/internal/fred/reconcile"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "20060102T150405"
)

// Writer serializes the two per-run artifacts (the flat merged table and
// the reconciliation table) as CSV files under one output directory.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteMerged writes the flat observation-series-release table, one file
// per run, and returns the file path.
func (w *Writer) WriteMerged(records []dataset.MergedRecord, runAt time.Time) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("merged_%s.csv", runAt.Format(stampLayout)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{
		"series_id", "date", "year", "month", "value",
		"realtime_start", "realtime_end",
		"title", "frequency", "seasonal_adjustment_short",
		"release_id", "release_name",
	}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.SeriesID,
			r.Date.Format(dateLayout),
			fmt.Sprintf("%d", r.Year),
			fmt.Sprintf("%d", r.Month),
			r.Value,
			r.RealtimeStart.Format(dateLayout),
			r.RealtimeEnd.Format(dateLayout),
			r.Title,
			r.Frequency,
			r.SeasonalAdjustmentShort,
			fmt.Sprintf("%d", r.ReleaseID),
			r.ReleaseName,
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return path, cw.Error()
}

// WriteReconciliation writes the wide-form reconciliation table: one row
// per date, one column per component title, then the named totals. A
// component with no data for a date serializes as an empty cell, not "0".
func (w *Writer) WriteReconciliation(res reconcile.Result, runAt time.Time) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("reconciliation_%s.csv", runAt.Format(stampLayout)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := append([]string{"date"}, res.ComponentTitles...)
	header = append(header, "calculated_total", "pulled_total", "difference")
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}

	for _, row := range res.Rows {
		rec := []string{row.Date.Format(dateLayout)}
		for _, title := range res.ComponentTitles {
			if v, ok := row.Components[title]; ok {
				rec = append(rec, v.String())
			} else {
				rec = append(rec, "")
			}
		}
		rec = append(rec,
			row.CalculatedTotal.String(),
			row.PulledTotal.String(),
			row.Difference.String(),
		)
		if err := cw.Write(rec); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return path, cw.Error()
}
