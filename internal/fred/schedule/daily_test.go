package schedule

import (
	"context"
	"testing"
)

func TestSpec(t *testing.T) {
	cases := []struct {
		at   string
		want string
		ok   bool
	}{
		{"14:30", "0 30 14 * * *", true},
		{"00:00", "0 0 0 * * *", true},
		{"23:59", "0 59 23 * * *", true},
		{"24:00", "", false},
		{"9:5:3", "", false},
		{"noon", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, err := Spec(c.at)
		if c.ok && err != nil {
			t.Errorf("Spec(%q): unexpected error: %v", c.at, err)
		}
		if !c.ok && err == nil {
			t.Errorf("Spec(%q): expected error, got %q", c.at, got)
		}
		if c.ok && got != c.want {
			t.Errorf("Spec(%q): got %q, want %q", c.at, got, c.want)
		}
	}
}

func TestAddRejectsInvalidTriggerTime(t *testing.T) {
	d := New(nil, context.Background())
	defer d.Stop()

	if _, err := d.Add("25:61", func(context.Context) {}); err == nil {
		t.Fatal("expected error for invalid trigger time")
	}
	if _, err := d.Add("06:45", func(context.Context) {}); err != nil {
		t.Fatalf("unexpected error for valid trigger time: %v", err)
	}
}
