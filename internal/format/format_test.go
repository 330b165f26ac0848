package format

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestOutputJSONRoundTrip(t *testing.T) {
	payload := map[string]any{
		"id":   float64(42),
		"name": "cpu high",
		"tags": []any{"env:prod", "team:backend"},
		"options": map[string]any{
			"notify_no_data": true,
		},
	}

	out := Output(payload, JSON, nil)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, payload) {
		t.Fatalf("round-trip mismatch:\n got %#v\nwant %#v", decoded, payload)
	}
}

func TestOutputDeterministic(t *testing.T) {
	payload := map[string]any{"b": float64(2), "a": float64(1), "c": []any{"x", "y"}}

	first := Output(payload, JSON, nil)
	second := Output(payload, JSON, nil)
	if first != second {
		t.Fatal("same payload produced different JSON output")
	}

	first = Output(payload, Markdown, nil)
	second = Output(payload, Markdown, nil)
	if first != second {
		t.Fatal("same payload produced different Markdown output")
	}
}

func TestTruncateExactLimit(t *testing.T) {
	big := strings.Repeat("a", 30000)

	out := Truncate(big)
	if len(out) != CharacterLimit {
		t.Fatalf("truncated length = %d, want %d", len(out), CharacterLimit)
	}
	if !strings.HasSuffix(out, TruncationMarker) {
		t.Fatal("truncated output does not end with the marker")
	}

	// Truncation is stable under re-application.
	if Truncate(out) != out {
		t.Fatal("truncation is not idempotent")
	}
}

func TestTruncateUnderLimit(t *testing.T) {
	s := strings.Repeat("b", 100)
	if got := Truncate(s); got != s {
		t.Fatal("short output should pass through unchanged")
	}

	exact := strings.Repeat("c", CharacterLimit)
	if got := Truncate(exact); got != exact {
		t.Fatal("output at exactly the limit should pass through unchanged")
	}
}

func TestOutputTruncatesLargePayload(t *testing.T) {
	payload := map[string]any{"blob": strings.Repeat("x", 30000)}

	out := Output(payload, JSON, nil)
	if len(out) != CharacterLimit {
		t.Fatalf("length = %d, want %d", len(out), CharacterLimit)
	}
	if !strings.HasSuffix(out, TruncationMarker) {
		t.Fatal("missing truncation marker")
	}
}

func TestOutputMarkdownUsesRenderer(t *testing.T) {
	payload := map[string]any{"anything": true}
	renderer := func(any) string { return "# Custom" }

	if got := Output(payload, Markdown, renderer); got != "# Custom" {
		t.Fatalf("renderer not used, got %q", got)
	}
	// JSON format ignores the renderer.
	if got := Output(payload, JSON, renderer); got == "# Custom" {
		t.Fatal("renderer should not apply to JSON output")
	}
}

func TestGenericMarkdownObject(t *testing.T) {
	payload := map[string]any{
		"name":    "checkout",
		"status":  "ok",
		"tags":    []any{"env:prod", "team:payments"},
		"widgets": []any{map[string]any{"a": float64(1)}, map[string]any{"b": float64(2)}},
		"config":  map[string]any{"x": float64(1), "y": float64(2), "z": float64(3)},
	}

	out := GenericMarkdown(payload)
	for _, want := range []string{
		"- **name**: checkout",
		"- **status**: ok",
		"- **tags**: env:prod, team:payments",
		"- **widgets**: [2 items]",
		"- **config**: {3 fields}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGenericMarkdownList(t *testing.T) {
	payload := []any{
		map[string]any{"name": "mon-a", "id": float64(1)},
		map[string]any{"name": "mon-b", "id": float64(2)},
	}

	out := GenericMarkdown(payload)
	if !strings.Contains(out, "# Results (2)") {
		t.Fatalf("missing header in:\n%s", out)
	}
	if !strings.Contains(out, "## mon-a") || !strings.Contains(out, "## mon-b") {
		t.Fatalf("missing section headings in:\n%s", out)
	}
}

func TestGenericMarkdownEmpty(t *testing.T) {
	if got := GenericMarkdown(nil); got != "(empty)" {
		t.Fatalf("nil = %q", got)
	}
	if got := GenericMarkdown([]any{}); got != "No results." {
		t.Fatalf("empty list = %q", got)
	}
	if got := GenericMarkdown(map[string]any{}); got != "(empty)" {
		t.Fatalf("empty map = %q", got)
	}
}
