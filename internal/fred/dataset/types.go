package dataset

import "time"

// Release is one entry of the FRED release catalog (e.g., "H.6 Money Stock Measures").
// Releases are the root of the hierarchy and are fetched once per run.
type Release struct {
	ID   int    `json:"id"`   // Unique release identifier
	Name string `json:"name"` // Human-readable release name
}

// Series is a single named time series belonging to one release.
type Series struct {
	ID                      string `json:"id"`                        // Series identifier (e.g., "M1NS")
	ReleaseID               int    `json:"release_id"`                // Owning release; stamped from the fetch call, never trusted from the payload
	Title                   string `json:"title"`                     // Series title (e.g., "Currency Component of M1")
	Frequency               string `json:"frequency"`                 // e.g., "Monthly"
	SeasonalAdjustmentShort string `json:"seasonal_adjustment_short"` // e.g., "NSA"
}

// Observation is one (date, value) data point within a series.
// The observation endpoint serves XML with every field as an attribute;
// Value stays textual because FRED marks missing data with "." and similar
// placeholders that only the reconciler decides how to treat.
type Observation struct {
	SeriesID      string    `json:"series_id"` // Stamped from the fetch call
	Date          time.Time `json:"date"`      // Calendar date, no time-of-day component
	Value         string    `json:"value"`     // Numeric text, or a missing-data marker
	RealtimeStart time.Time `json:"realtime_start"`
	RealtimeEnd   time.Time `json:"realtime_end"`
}

// MergedRecord is one row of the flat observation-series-release join.
// Year and Month are recomputed from Date, never taken from the API.
type MergedRecord struct {
	SeriesID                string    `json:"series_id"`
	Date                    time.Time `json:"date"`
	Year                    int       `json:"year"`
	Month                   int       `json:"month"`
	Value                   string    `json:"value"`
	RealtimeStart           time.Time `json:"realtime_start"`
	RealtimeEnd             time.Time `json:"realtime_end"`
	Title                   string    `json:"title"`
	Frequency               string    `json:"frequency"`
	SeasonalAdjustmentShort string    `json:"seasonal_adjustment_short"`
	ReleaseID               int       `json:"release_id"`
	ReleaseName             string    `json:"release_name"`
}

// SeriesWithName pairs a series with its release name after the first join.
type SeriesWithName struct {
	Series
	ReleaseName string `json:"release_name"`
}
