package timeparse

import (
	"errors"
	"testing"
	"time"
)

var fixedNow = time.Unix(1700000000, 0).UTC()

func TestParseAtRelative(t *testing.T) {
	cases := []struct {
		expr string
		want int64
	}{
		{"5m", 1700000000 - 5*60},
		{"30m", 1700000000 - 30*60},
		{"1h", 1700000000 - 3600},
		{"12h", 1700000000 - 12*3600},
		{"7d", 1700000000 - 7*86400},
		{"1w", 1700000000 - 604800},
		{"2W", 1700000000 - 2*604800},
		{"3H", 1700000000 - 3*3600},
	}
	for _, c := range cases {
		got, err := ParseAt(c.expr, fixedNow)
		if err != nil {
			t.Fatalf("ParseAt(%q) failed: %v", c.expr, err)
		}
		if got != c.want {
			t.Fatalf("ParseAt(%q) = %d, want %d", c.expr, got, c.want)
		}
	}
}

func TestParseAtEpoch(t *testing.T) {
	got, err := ParseAt("1700000000", time.Unix(999, 0))
	if err != nil {
		t.Fatalf("ParseAt failed: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("epoch passthrough = %d, want 1700000000", got)
	}
}

func TestParseAtISO(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).Unix()

	got, err := ParseAt("2024-01-15T10:30:00Z", fixedNow)
	if err != nil {
		t.Fatalf("ParseAt with zone failed: %v", err)
	}
	if got != want {
		t.Fatalf("ParseAt with zone = %d, want %d", got, want)
	}

	// Same timestamp without an explicit zone parses as UTC.
	got, err = ParseAt("2024-01-15T10:30:00", fixedNow)
	if err != nil {
		t.Fatalf("ParseAt without zone failed: %v", err)
	}
	if got != want {
		t.Fatalf("ParseAt without zone = %d, want %d", got, want)
	}
}

func TestParseAtDateOnly(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Unix()
	got, err := ParseAt("2024-01-15", fixedNow)
	if err != nil {
		t.Fatalf("ParseAt date-only failed: %v", err)
	}
	if got != want {
		t.Fatalf("ParseAt date-only = %d, want %d", got, want)
	}
}

func TestParseAtInvalid(t *testing.T) {
	for _, expr := range []string{"", "bogus", "5x", "h1", "2024-13-45T99:99:99Z"} {
		_, err := ParseAt(expr, fixedNow)
		if err == nil {
			t.Fatalf("ParseAt(%q) should fail", expr)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("ParseAt(%q) error type = %T, want *ParseError", expr, err)
		}
	}
}

func TestParseRangeAtDefaultsToNow(t *testing.T) {
	from, to, err := ParseRangeAt("1h", "", fixedNow)
	if err != nil {
		t.Fatalf("ParseRangeAt failed: %v", err)
	}
	if from != fixedNow.Unix()-3600 {
		t.Fatalf("from = %d, want %d", from, fixedNow.Unix()-3600)
	}
	if to != fixedNow.Unix() {
		t.Fatalf("to = %d, want now (%d)", to, fixedNow.Unix())
	}
}

func TestParseRangeAtExplicitEnds(t *testing.T) {
	from, to, err := ParseRangeAt("1700000000", "2024-01-15T10:30:00Z", fixedNow)
	if err != nil {
		t.Fatalf("ParseRangeAt failed: %v", err)
	}
	if from != 1700000000 {
		t.Fatalf("from = %d", from)
	}
	if to != time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).Unix() {
		t.Fatalf("to = %d", to)
	}
}

func TestParseRangeAtMissingFrom(t *testing.T) {
	if _, _, err := ParseRangeAt("", "1h", fixedNow); err == nil {
		t.Fatal("expected error with empty from")
	}
}

func TestParseRangeAtInvertedRangePassesThrough(t *testing.T) {
	// Ordering is the caller's contract; an inverted range is not rejected.
	from, to, err := ParseRangeAt("1h", "2h", fixedNow)
	if err != nil {
		t.Fatalf("ParseRangeAt failed: %v", err)
	}
	if from <= to {
		t.Fatalf("expected inverted range to pass through, got from=%d to=%d", from, to)
	}
}
