package fred

import "fmt"

// Frequency is the long-form frequency name used by the FRED series
// catalog and, unchanged, by the reconciliation filter.
type Frequency string

// FrequencyMeta holds the API short code and nominal period for a frequency.
type FrequencyMeta struct {
	ShortCode string
	Days      int
}

const (
	FrequencyDaily      Frequency = "Daily"
	FrequencyWeekly     Frequency = "Weekly"
	FrequencyBiweekly   Frequency = "Biweekly"
	FrequencyMonthly    Frequency = "Monthly"
	FrequencyQuarterly  Frequency = "Quarterly"
	FrequencySemiannual Frequency = "Semiannual"
	FrequencyAnnual     Frequency = "Annual"
)

var validFrequencies = map[Frequency]FrequencyMeta{
	FrequencyDaily:      {ShortCode: "d", Days: 1},
	FrequencyWeekly:     {ShortCode: "w", Days: 7},
	FrequencyBiweekly:   {ShortCode: "bw", Days: 14},
	FrequencyMonthly:    {ShortCode: "m", Days: 30},
	FrequencyQuarterly:  {ShortCode: "q", Days: 91},
	FrequencySemiannual: {ShortCode: "sa", Days: 182},
	FrequencyAnnual:     {ShortCode: "a", Days: 365},
}

// IsValid checks if the Frequency is one of the FRED catalog frequencies.
func (f Frequency) IsValid() bool {
	_, ok := validFrequencies[f]
	return ok
}

// ParseFrequency parses a string into a valid FrequencyMeta.
func ParseFrequency(s string) (FrequencyMeta, error) {
	meta, ok := validFrequencies[Frequency(s)]
	if !ok {
		return FrequencyMeta{}, fmt.Errorf("invalid frequency: %s", s)
	}
	return meta, nil
}
