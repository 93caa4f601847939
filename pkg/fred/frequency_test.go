package fred

import "testing"

// go test -v --run TestFrequencyIsValid
func TestFrequencyIsValid(t *testing.T) {
	for _, f := range []Frequency{
		FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual,
	} {
		if !f.IsValid() {
			t.Errorf("%s should be a valid frequency", f)
		}
	}
	for _, f := range []Frequency{"", "monthly", "Hourly"} {
		if f.IsValid() {
			t.Errorf("%q should not be a valid frequency", f)
		}
	}
}

// go test -v --run TestParseFrequency
func TestParseFrequency(t *testing.T) {
	meta, err := ParseFrequency("Monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.ShortCode != "m" || meta.Days != 30 {
		t.Errorf("unexpected meta for Monthly: %+v", meta)
	}

	if _, err := ParseFrequency("Fortnightly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}
