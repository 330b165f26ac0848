package tools

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	client, err := ddapi.New(ddapi.Config{APIKey: "k", AppKey: "a", Site: "datadoghq.com"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := NewRegistry(client)
	s := mcp.NewServer(&mcp.Implementation{Name: "pup-test", Version: "0.0.0"}, nil)
	r.RegisterAll(s)
	return r
}

func TestCatalogNamesUniqueAndPrefixed(t *testing.T) {
	r := testRegistry(t)
	entries := r.Entries()
	if len(entries) == 0 {
		t.Fatal("no tools registered")
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, "pup_") {
			t.Errorf("tool %q missing pup_ prefix", e.Name)
		}
		if seen[e.Name] {
			t.Errorf("duplicate tool name %q", e.Name)
		}
		seen[e.Name] = true
		if e.Title == "" {
			t.Errorf("tool %q has no title", e.Name)
		}
	}
}

func TestCatalogAnnotationsConsistent(t *testing.T) {
	r := testRegistry(t)
	for _, e := range r.Entries() {
		if e.Destructive && e.ReadOnly {
			t.Errorf("tool %q marked both destructive and read-only", e.Name)
		}
	}
}

func TestCatalogCoversEveryDomain(t *testing.T) {
	r := testRegistry(t)
	names := map[string]bool{}
	for _, e := range r.Entries() {
		names[e.Name] = true
	}
	for _, want := range []string{
		"pup_monitors_list", "pup_monitors_get", "pup_monitors_search", "pup_monitors_delete",
		"pup_dashboards_list", "pup_dashboards_get", "pup_dashboards_delete",
		"pup_metrics_query", "pup_metrics_search", "pup_metrics_list", "pup_metrics_submit",
		"pup_logs_search",
		"pup_events_list", "pup_events_search", "pup_events_get",
		"pup_incidents_list", "pup_incidents_get",
		"pup_slos_list", "pup_slos_get", "pup_slos_delete",
		"pup_synthetics_tests_list", "pup_synthetics_tests_get", "pup_synthetics_tests_search",
		"pup_synthetics_locations", "pup_synthetics_api_test_create",
		"pup_synthetics_api_test_update", "pup_synthetics_tests_delete",
		"pup_downtimes_list", "pup_downtimes_get", "pup_downtimes_cancel",
		"pup_tags_list", "pup_tags_get", "pup_tags_add", "pup_tags_update", "pup_tags_delete",
		"pup_users_list", "pup_users_get", "pup_roles_list",
		"pup_rum_apps_list", "pup_rum_apps_get", "pup_rum_apps_create",
		"pup_rum_apps_update", "pup_rum_apps_delete",
		"pup_rum_metrics_list", "pup_rum_metrics_get", "pup_rum_metrics_create",
		"pup_rum_metrics_update", "pup_rum_metrics_delete",
		"pup_rum_retention_filters_list", "pup_rum_retention_filters_get",
		"pup_rum_retention_filters_create", "pup_rum_retention_filters_update",
		"pup_rum_retention_filters_delete",
		"pup_rum_sessions_list", "pup_rum_sessions_search",
		"pup_rum_playlists_list", "pup_rum_playlists_get",
		"pup_rum_heatmap_query",
	} {
		if !names[want] {
			t.Errorf("catalog missing %q", want)
		}
	}
}

func TestMonitorsListMarkdown(t *testing.T) {
	data := []any{
		map[string]any{
			"id":            float64(123),
			"name":          "High CPU",
			"type":          "metric alert",
			"overall_state": "OK",
			"tags":          []any{"env:prod", "team:infra"},
		},
	}
	out := monitorsListMarkdown(data)
	for _, want := range []string{"# Monitors (1 results)", "## High CPU (ID: 123)", "env:prod, team:infra"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMonitorsListMarkdownEmpty(t *testing.T) {
	if got := monitorsListMarkdown([]any{}); got != "No monitors found." {
		t.Errorf("got %q", got)
	}
}

func TestDashboardsListMarkdown(t *testing.T) {
	data := map[string]any{
		"dashboards": []any{
			map[string]any{"id": "abc-def", "title": "Service Overview", "author_handle": "dev@example.com"},
		},
	}
	out := dashboardsListMarkdown(data)
	if !strings.Contains(out, "## Service Overview (ID: abc-def)") {
		t.Errorf("unexpected markdown:\n%s", out)
	}
}

func TestLogsMarkdown(t *testing.T) {
	data := map[string]any{
		"data": []any{
			map[string]any{
				"attributes": map[string]any{
					"timestamp": "2024-01-01T00:00:00Z",
					"service":   "web",
					"status":    "error",
					"message":   "boom",
				},
			},
		},
	}
	out := logsMarkdown(data)
	for _, want := range []string{"# Log Events (1 results)", "- **Service**: web", "- **Message**: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestAPITestBodyDefaults(t *testing.T) {
	body := apiTestBody("ping", "", map[string]any{"request": map[string]any{}}, []string{"aws:us-east-1"}, nil, "", nil, "")
	if body["subtype"] != "http" {
		t.Errorf("subtype = %v, want http", body["subtype"])
	}
	if body["type"] != "api" {
		t.Errorf("type = %v, want api", body["type"])
	}
	if _, ok := body["message"]; ok {
		t.Error("empty message should be omitted")
	}
}

func TestRUMMetricAttributesDefaults(t *testing.T) {
	attrs := rumMetricAttributes("session", "", "@session.type:user", []string{"@geo.country"})
	compute := attrs["compute"].(map[string]any)
	if compute["aggregation_type"] != "count" {
		t.Errorf("aggregation = %v, want count", compute["aggregation_type"])
	}
	filter := attrs["filter"].(map[string]any)
	if filter["query"] != "@session.type:user" {
		t.Errorf("filter query = %v", filter["query"])
	}
	groups := attrs["group_by"].([]any)
	if len(groups) != 1 {
		t.Fatalf("group_by len = %d", len(groups))
	}
}

func TestPageLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, defaultLimit},
		{-5, defaultLimit},
		{50, 50},
		{100, 100},
		{500, maxLimit},
	}
	for _, c := range cases {
		if got := pageLimit(c.in); got != c.want {
			t.Errorf("pageLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	if outputFormat("markdown") != format.Markdown {
		t.Error("markdown not recognized")
	}
	if outputFormat("") != format.JSON {
		t.Error("empty should default to json")
	}
	if outputFormat("yaml") != format.JSON {
		t.Error("unknown format should fall back to json")
	}
}
