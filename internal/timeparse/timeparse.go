// Package timeparse normalizes the time expressions accepted by pup tools to
// Unix epoch seconds.
//
// Three forms are supported:
//   - Relative: "5m", "1h", "7d", "1w" (subtracted from now)
//   - Absolute Unix timestamp: "1700000000"
//   - ISO 8601 / RFC 3339: "2024-01-15T10:30:00Z" (missing zone means UTC)
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRe = regexp.MustCompile(`(?i)^(\d+)([mhdw])$`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
)

var unitSeconds = map[string]int64{
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// Layouts tried in order for calendar timestamps. Layouts without a zone are
// interpreted as UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseError reports a time expression that matches no supported format.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: use relative (1h, 30m, 7d, 1w), Unix timestamp, or RFC 3339", e.Input)
}

// Parse parses a time expression to Unix epoch seconds, relative to the
// current time.
func Parse(s string) (int64, error) {
	return ParseAt(s, time.Now())
}

// ParseAt parses a time expression to Unix epoch seconds, with relative
// expressions anchored at now.
func ParseAt(s string, now time.Time) (int64, error) {
	if digitsRe.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, &ParseError{Input: s}
		}
		return n, nil
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		amount, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, &ParseError{Input: s}
		}
		unit := unitSeconds[strings.ToLower(m[2])]
		return now.Unix() - amount*unit, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, &ParseError{Input: s}
}

// ParseRange parses a from/to pair to Unix epoch seconds, relative to the
// current time. An empty to defaults to now; an empty from is an error.
func ParseRange(from, to string) (int64, int64, error) {
	return ParseRangeAt(from, to, time.Now())
}

// ParseRangeAt parses a from/to pair with relative expressions anchored at
// now. Both ends are resolved independently; no ordering check is applied.
func ParseRangeAt(from, to string, now time.Time) (int64, int64, error) {
	if from == "" {
		return 0, 0, &ParseError{Input: from}
	}
	fromTS, err := ParseAt(from, now)
	if err != nil {
		return 0, 0, err
	}
	toTS := now.Unix()
	if to != "" {
		toTS, err = ParseAt(to, now)
		if err != nil {
			return 0, 0, err
		}
	}
	return fromTS, toTS, nil
}

// Now returns the current time as Unix epoch seconds.
func Now() int64 {
	return time.Now().Unix()
}
