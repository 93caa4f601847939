package postgres

import (
	"testing"
	"time"

	"fredrecon/internal/fred/dataset"
)

// go test -v --run TestToObservationRecord
func TestToObservationRecord(t *testing.T) {
	date, _ := time.Parse("2006-01-02", "2021-01-01")
	vintage, _ := time.Parse("2006-01-02", "2026-08-01")

	m := dataset.MergedRecord{
		SeriesID: "M1NS", Date: date, Year: 2021, Month: 1, Value: "16.0",
		RealtimeStart: vintage, RealtimeEnd: vintage,
		Title: "M1 Money Stock", Frequency: "Monthly", SeasonalAdjustmentShort: "NSA",
		ReleaseID: 21, ReleaseName: "H.6 Money Stock Measures",
	}

	rec := ToObservationRecord("run-1", m)

	if rec.RunID != "run-1" {
		t.Errorf("unexpected run id: %s", rec.RunID)
	}
	if rec.SeriesID != "M1NS" || !rec.Date.Equal(date) || rec.Value != "16.0" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ReleaseName != "H.6 Money Stock Measures" || rec.ReleaseID != 21 {
		t.Errorf("release fields not carried: %+v", rec)
	}
	if rec.Year != 2021 || rec.Month != 1 {
		t.Errorf("derived date fields not carried: %+v", rec)
	}
}
