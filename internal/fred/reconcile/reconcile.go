package reconcile

import (
	"sort"
	"time"

	"fredrecon/internal/fred/dataset"

	"github.com/shopspring/decimal"
)

// Params selects the slice of the flat table to reconcile and names the
// component and aggregate series to compare.
type Params struct {
	ReleaseName        string
	Frequency          string
	SeasonalAdjustment string
	ComponentSeries    []string
	TotalSeries        string
	Year               int // 0 reconciles all years
}

// H6Params returns the original H.6 money-stock check: the sum of the
// demand-deposit, other-liquid-deposit and currency components against
// the reported M1 aggregate.
func H6Params(frequency string) Params {
	return Params{
		ReleaseName:        "H.6 Money Stock Measures",
		Frequency:          frequency,
		SeasonalAdjustment: "NSA",
		ComponentSeries:    []string{"DEMDEPNS", "MDLNM", "CURRNS"},
		TotalSeries:        "M1NS",
	}
}

// Row is one reconciled date. Components is keyed by series title; a
// missing key means the component had no data for the date (it counts
// as zero in CalculatedTotal but the date is kept).
type Row struct {
	Date            time.Time
	Components      map[string]decimal.Decimal
	CalculatedTotal decimal.Decimal
	PulledTotal     decimal.Decimal
	Difference      decimal.Decimal
}

// Result carries the reconciled rows plus the data-quality counters the
// caller is expected to log.
type Result struct {
	Rows            []Row
	ComponentTitles []string // sorted; stable column order for serialization
	SkippedValues   int      // values that failed numeric coercion, excluded from sums
}

// Run filters the flat table to the requested release/frequency/seasonal
// adjustment slice, sums the component series per date, pivots them wide
// by title, and joins the row-wise component total against the reported
// aggregate series. Dates present on only one side are dropped (inner
// join); an empty result is valid when the filters match nothing.
func Run(records []dataset.MergedRecord, p Params) Result {
	components := make(map[string]bool, len(p.ComponentSeries))
	for _, id := range p.ComponentSeries {
		components[id] = true
	}

	// Pivot cells and pulled totals, both keyed by date. Grouping by
	// (title, series, date) and summing collapses duplicate realtime
	// vintage rows for the same date into one figure.
	type dateKey string
	cells := make(map[dateKey]map[string]decimal.Decimal)
	pulled := make(map[dateKey]decimal.Decimal)
	dates := make(map[dateKey]time.Time)
	titles := make(map[string]bool)
	skipped := 0

	for _, r := range records {
		if r.ReleaseName != p.ReleaseName ||
			r.Frequency != p.Frequency ||
			r.SeasonalAdjustmentShort != p.SeasonalAdjustment {
			continue
		}
		if p.Year != 0 && r.Year != p.Year {
			continue
		}

		isComponent := components[r.SeriesID]
		isTotal := r.SeriesID == p.TotalSeries
		if !isComponent && !isTotal {
			continue
		}

		v, err := decimal.NewFromString(r.Value)
		if err != nil {
			// Missing-data markers ("." and friends) are excluded from
			// the sums, never treated as zero and never fatal.
			skipped++
			continue
		}

		key := dateKey(r.Date.Format("2006-01-02"))
		dates[key] = r.Date

		if isComponent {
			row, ok := cells[key]
			if !ok {
				row = make(map[string]decimal.Decimal)
				cells[key] = row
			}
			row[r.Title] = row[r.Title].Add(v)
			titles[r.Title] = true
		}
		if isTotal {
			pulled[key] = pulled[key].Add(v)
		}
	}

	componentTitles := make([]string, 0, len(titles))
	for t := range titles {
		componentTitles = append(componentTitles, t)
	}
	sort.Strings(componentTitles)

	var rows []Row
	for key, row := range cells {
		total, ok := pulled[key]
		if !ok {
			continue // date never reported for the aggregate series
		}
		calculated := decimal.Zero
		for _, v := range row {
			calculated = calculated.Add(v)
		}
		rows = append(rows, Row{
			Date:            dates[key],
			Components:      row,
			CalculatedTotal: calculated,
			PulledTotal:     total,
			Difference:      calculated.Sub(total),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	return Result{Rows: rows, ComponentTitles: componentTitles, SkippedValues: skipped}
}
