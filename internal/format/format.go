// Package format renders decoded Datadog API payloads for an LLM consumer as
// either JSON or condensed Markdown, and bounds the result to a fixed
// character limit.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format selects the output rendering for a tool response.
type Format string

const (
	// JSON renders the payload as indented JSON.
	JSON Format = "json"
	// Markdown renders the payload as a condensed human-readable summary.
	Markdown Format = "markdown"
)

// CharacterLimit is the maximum length of any tool response. Output exceeding
// it is cut and suffixed with TruncationMarker, so a truncated response is
// always exactly CharacterLimit characters long.
const CharacterLimit = 25000

// TruncationMarker is appended when output is truncated.
const TruncationMarker = "\n\n[Truncated. Refine filters or pagination to narrow results.]"

// Renderer converts a payload to Markdown. Tools supply domain-specific
// renderers; the generic fallback is used when none is given.
type Renderer func(data any) string

// Output renders data in the requested format and truncates the result.
// The same payload, format, and renderer always produce identical output.
func Output(data any, f Format, md Renderer) string {
	if f == Markdown {
		if md != nil {
			return Truncate(md(data))
		}
		return Truncate(GenericMarkdown(data))
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return Truncate(fmt.Sprintf("%v", data))
	}
	return Truncate(string(b))
}

// Truncate bounds s to CharacterLimit, replacing the tail with
// TruncationMarker when it is cut.
func Truncate(s string) string {
	if len(s) <= CharacterLimit {
		return s
	}
	return s[:CharacterLimit-len(TruncationMarker)] + TruncationMarker
}

// GenericMarkdown is the fallback Markdown renderer: a shallow walk over the
// decoded payload. Objects become labeled lines, lists of objects become
// sections, and nested collections are summarized by size.
func GenericMarkdown(data any) string {
	switch v := data.(type) {
	case nil:
		return "(empty)"
	case map[string]any:
		if len(v) == 0 {
			return "(empty)"
		}
		return strings.Join(objectLines(v), "\n")
	case []any:
		if len(v) == 0 {
			return "No results."
		}
		lines := []string{fmt.Sprintf("# Results (%d)", len(v)), ""}
		for i, item := range v {
			if m, ok := item.(map[string]any); ok {
				lines = append(lines, fmt.Sprintf("## %s", itemTitle(m, i)))
				lines = append(lines, objectLines(m)...)
				lines = append(lines, "")
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s", Scalar(item)))
		}
		return strings.Join(lines, "\n")
	default:
		return Scalar(v)
	}
}

// objectLines renders one map as labeled bullet lines, keys sorted.
func objectLines(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", k, summarize(m[k])))
	}
	return lines
}

// summarize renders a value one level deep: scalars inline, collections by
// size or a short inline join.
func summarize(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return fmt.Sprintf("{%d fields}", len(t))
	case []any:
		if allScalars(t) && len(t) <= 10 {
			parts := make([]string, len(t))
			for i, e := range t {
				parts[i] = Scalar(e)
			}
			return strings.Join(parts, ", ")
		}
		return fmt.Sprintf("[%d items]", len(t))
	default:
		return Scalar(t)
	}
}

func allScalars(items []any) bool {
	for _, e := range items {
		switch e.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// Scalar renders a single JSON scalar as text. Numbers print in plain
// notation (monitor IDs and timestamps decode as float64).
func Scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "(none)"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// itemTitle picks a human-meaningful heading for a list entry.
func itemTitle(m map[string]any, index int) string {
	for _, k := range []string{"name", "title", "id"} {
		if v, ok := m[k]; ok {
			return Scalar(v)
		}
	}
	return fmt.Sprintf("Item %d", index+1)
}
