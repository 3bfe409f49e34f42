package calendar

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() time.Time {
	// Tuesday.
	return time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
}

func TestParser_ISODate(t *testing.T) {
	p := NewParser(fixedClock)
	got, err := p.Parse(" 2025-11-02 ")
	if err != nil {
		t.Fatalf("parse iso date: %v", err)
	}
	if got.String() != "2025-11-02" {
		t.Fatalf("expected 2025-11-02, got %s", got)
	}
}

func TestParser_CasualDates(t *testing.T) {
	p := NewParser(fixedClock)
	cases := map[string]string{
		"today":     "2026-03-10",
		"Yesterday": "2026-03-09",
	}
	for input, want := range cases {
		got, err := p.Parse(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got.String() != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
}

func TestParser_Unrecognized(t *testing.T) {
	p := NewParser(fixedClock)
	for _, input := range []string{"", "   ", "banana"} {
		if _, err := p.Parse(input); !errors.Is(err, ErrUnrecognizedDate) {
			t.Fatalf("parse %q: expected ErrUnrecognizedDate, got %v", input, err)
		}
	}
}
