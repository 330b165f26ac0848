package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
	"github.com/pupmcp/pup/internal/timeparse"
)

type RUMAppsListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMAppGetArgs struct {
	AppID          string `json:"app_id" jsonschema:"RUM application ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMAppCreateArgs struct {
	Name string `json:"name" jsonschema:"Application name"`
	Type string `json:"type,omitempty" jsonschema:"Application type: browser ios android react-native or flutter (default browser)"`
}

type RUMAppUpdateArgs struct {
	AppID string `json:"app_id" jsonschema:"RUM application ID"`
	Name  string `json:"name,omitempty" jsonschema:"New application name"`
	Type  string `json:"type,omitempty" jsonschema:"New application type"`
}

type RUMAppDeleteArgs struct {
	AppID string `json:"app_id" jsonschema:"RUM application ID to delete"`
}

type RUMMetricsListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMMetricGetArgs struct {
	MetricID       string `json:"metric_id" jsonschema:"RUM metric name"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMMetricCreateArgs struct {
	Name            string   `json:"name" jsonschema:"Metric name (e.g. 'rum.sessions.by_country')"`
	EventType       string   `json:"event_type" jsonschema:"RUM event type: session view action error resource or long_task"`
	AggregationType string   `json:"aggregation_type,omitempty" jsonschema:"Aggregation: count or distribution (default count)"`
	Query           string   `json:"query,omitempty" jsonschema:"Filter query to scope matched events"`
	GroupBy         []string `json:"group_by,omitempty" jsonschema:"Attribute paths to group by"`
}

type RUMMetricUpdateArgs struct {
	MetricID        string   `json:"metric_id" jsonschema:"RUM metric name to update"`
	EventType       string   `json:"event_type" jsonschema:"RUM event type: session view action error resource or long_task"`
	AggregationType string   `json:"aggregation_type,omitempty" jsonschema:"Aggregation: count or distribution (default count)"`
	Query           string   `json:"query,omitempty" jsonschema:"Filter query to scope matched events"`
	GroupBy         []string `json:"group_by,omitempty" jsonschema:"Attribute paths to group by"`
}

type RUMMetricDeleteArgs struct {
	MetricID string `json:"metric_id" jsonschema:"RUM metric name to delete"`
}

type RUMRetentionFiltersListArgs struct {
	AppID          string `json:"app_id" jsonschema:"RUM application ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMRetentionFilterGetArgs struct {
	AppID          string `json:"app_id" jsonschema:"RUM application ID"`
	FilterID       string `json:"filter_id" jsonschema:"Retention filter ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMRetentionFilterCreateArgs struct {
	AppID      string  `json:"app_id" jsonschema:"RUM application ID"`
	Name       string  `json:"name" jsonschema:"Retention filter name"`
	FilterType string  `json:"filter_type,omitempty" jsonschema:"Event type to retain (default session-replay)"`
	Query      string  `json:"query,omitempty" jsonschema:"Query scoping retained events (default '*')"`
	SampleRate float64 `json:"sample_rate,omitempty" jsonschema:"Percentage of matching events to retain (default 100)"`
	Enabled    *bool   `json:"enabled,omitempty" jsonschema:"Whether the filter is active (default true)"`
}

type RUMRetentionFilterUpdateArgs struct {
	AppID      string  `json:"app_id" jsonschema:"RUM application ID"`
	FilterID   string  `json:"filter_id" jsonschema:"Retention filter ID"`
	Name       string  `json:"name,omitempty" jsonschema:"New filter name"`
	Query      string  `json:"query,omitempty" jsonschema:"New query"`
	SampleRate float64 `json:"sample_rate,omitempty" jsonschema:"New sample rate percentage"`
	Enabled    *bool   `json:"enabled,omitempty" jsonschema:"Whether the filter is active"`
}

type RUMRetentionFilterDeleteArgs struct {
	AppID    string `json:"app_id" jsonschema:"RUM application ID"`
	FilterID string `json:"filter_id" jsonschema:"Retention filter ID to delete"`
}

type RUMSessionsListArgs struct {
	From           string `json:"from,omitempty" jsonschema:"Start time: relative (1h / 7d) or Unix timestamp or RFC 3339 (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum sessions to return (default 100)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMSessionsSearchArgs struct {
	Query          string `json:"query" jsonschema:"RUM event query (e.g. '@session.type:user @geo.country:France')"`
	From           string `json:"from,omitempty" jsonschema:"Start time (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum events to return (default 100)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMPlaylistsListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMPlaylistGetArgs struct {
	PlaylistID     string `json:"playlist_id" jsonschema:"Playlist ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RUMHeatmapArgs struct {
	View           string `json:"view" jsonschema:"View name to aggregate interactions for"`
	From           string `json:"from,omitempty" jsonschema:"Start time (default 24h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

func rumAppsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	apps, _ := m["data"].([]any)
	if len(apps) == 0 {
		return "No RUM applications found."
	}
	lines := []string{fmt.Sprintf("# RUM Applications (%d results)", len(apps)), ""}
	for _, item := range apps {
		app, ok := item.(map[string]any)
		if !ok {
			continue
		}
		attrs, _ := app["attributes"].(map[string]any)
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(attrs["name"]), format.Scalar(app["id"])))
		lines = append(lines, fmt.Sprintf("- **Type**: %s", format.Scalar(attrs["type"])))
		lines = append(lines, fmt.Sprintf("- **Created**: %s", format.Scalar(attrs["created_at"])))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func rumMetricsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	metrics, _ := m["data"].([]any)
	if len(metrics) == 0 {
		return "No RUM metrics found."
	}
	lines := []string{fmt.Sprintf("# RUM Metrics (%d results)", len(metrics)), ""}
	for _, item := range metrics {
		met, ok := item.(map[string]any)
		if !ok {
			continue
		}
		attrs, _ := met["attributes"].(map[string]any)
		lines = append(lines, fmt.Sprintf("## %s", format.Scalar(met["id"])))
		lines = append(lines, fmt.Sprintf("- **Event type**: %s", format.Scalar(attrs["event_type"])))
		if compute, ok := attrs["compute"].(map[string]any); ok {
			lines = append(lines, fmt.Sprintf("- **Aggregation**: %s", format.Scalar(compute["aggregation_type"])))
		}
		if filter, ok := attrs["filter"].(map[string]any); ok {
			lines = append(lines, fmt.Sprintf("- **Filter**: `%s`", format.Scalar(filter["query"])))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func rumSessionsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	events, _ := m["data"].([]any)
	if len(events) == 0 {
		return "No RUM events found."
	}
	lines := []string{fmt.Sprintf("# RUM Events (%d results)", len(events)), ""}
	for _, item := range events {
		ev, ok := item.(map[string]any)
		if !ok {
			continue
		}
		attrs, _ := ev["attributes"].(map[string]any)
		lines = append(lines, fmt.Sprintf("## %s", format.Scalar(ev["id"])))
		lines = append(lines, fmt.Sprintf("- **Type**: %s", format.Scalar(ev["type"])))
		lines = append(lines, fmt.Sprintf("- **Timestamp**: %s", format.Scalar(attrs["timestamp"])))
		lines = append(lines, fmt.Sprintf("- **Service**: %s", format.Scalar(attrs["service"])))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func rumMetricAttributes(eventType, aggregation, query string, groupBy []string) map[string]any {
	if aggregation == "" {
		aggregation = "count"
	}
	attrs := map[string]any{
		"event_type": eventType,
		"compute":    map[string]any{"aggregation_type": aggregation},
	}
	if query != "" {
		attrs["filter"] = map[string]any{"query": query}
	}
	if len(groupBy) > 0 {
		groups := make([]any, 0, len(groupBy))
		for _, path := range groupBy {
			groups = append(groups, map[string]any{"path": path})
		}
		attrs["group_by"] = groups
	}
	return attrs
}

func rumEventsSearch(ctx context.Context, c *ddapi.Client, query, from, to string, limit int) (any, error) {
	if from == "" {
		from = "1h"
	}
	fromSec, toSec, err := timeparse.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	filter := map[string]any{
		"from": strconv.FormatInt(fromSec*1000, 10),
		"to":   strconv.FormatInt(toSec*1000, 10),
	}
	if query != "" {
		filter["query"] = query
	}
	body := map[string]any{
		"filter": filter,
		"page":   map[string]any{"limit": limit},
	}
	return c.Post(ctx, "v2", "rum/events/search", body)
}

func (r *Registry) registerRUM(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_apps_list",
		Description: "List RUM applications",
		Annotations: readOnly("List RUM Applications"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMAppsListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/applications", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), rumAppsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_apps_get",
		Description: "Get details of a RUM application",
		Annotations: readOnly("Get RUM Application"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMAppGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/applications/"+args.AppID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_apps_create",
		Description: "Create a RUM application",
		Annotations: writeTool("Create RUM Application", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMAppCreateArgs) (string, error) {
		appType := args.Type
		if appType == "" {
			appType = "browser"
		}
		body := map[string]any{
			"data": map[string]any{
				"attributes": map[string]any{"name": args.Name, "type": appType},
				"type":       "rum_application_create",
			},
		}
		data, err := c.Post(ctx, "v2", "rum/applications", body)
		if err != nil {
			return "", err
		}
		appID := ""
		if m, ok := data.(map[string]any); ok {
			if d, ok := m["data"].(map[string]any); ok {
				appID = format.Scalar(d["id"])
			}
		}
		return fmt.Sprintf("RUM application %q created (ID: %s).", args.Name, appID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_apps_update",
		Description: "Update a RUM application's name or type",
		Annotations: writeTool("Update RUM Application", true),
	}, func(ctx context.Context, c *ddapi.Client, args RUMAppUpdateArgs) (string, error) {
		attrs := map[string]any{}
		if args.Name != "" {
			attrs["name"] = args.Name
		}
		if args.Type != "" {
			attrs["type"] = args.Type
		}
		body := map[string]any{
			"data": map[string]any{
				"attributes": attrs,
				"id":         args.AppID,
				"type":       "rum_application_update",
			},
		}
		if _, err := c.Patch(ctx, "v2", "rum/applications/"+args.AppID, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("RUM application %s updated successfully.", args.AppID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_apps_delete",
		Description: "Permanently delete a RUM application",
		Annotations: destructive("Delete RUM Application", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMAppDeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v2", "rum/applications/"+args.AppID); err != nil {
			return "", err
		}
		return fmt.Sprintf("RUM application %s deleted successfully.", args.AppID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_metrics_list",
		Description: "List RUM-based custom metrics",
		Annotations: readOnly("List RUM Metrics"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMMetricsListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/metrics", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), rumMetricsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_metrics_get",
		Description: "Get configuration of a RUM-based metric",
		Annotations: readOnly("Get RUM Metric"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMMetricGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/metrics/"+args.MetricID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_metrics_create",
		Description: "Create a RUM-based custom metric",
		Annotations: writeTool("Create RUM Metric", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMMetricCreateArgs) (string, error) {
		body := map[string]any{
			"data": map[string]any{
				"attributes": rumMetricAttributes(args.EventType, args.AggregationType, args.Query, args.GroupBy),
				"id":         args.Name,
				"type":       "rum_metrics",
			},
		}
		if _, err := c.Post(ctx, "v2", "rum/metrics", body); err != nil {
			return "", err
		}
		return fmt.Sprintf("RUM metric %s created successfully.", args.Name), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_metrics_update",
		Description: "Update a RUM-based custom metric",
		Annotations: writeTool("Update RUM Metric", true),
	}, func(ctx context.Context, c *ddapi.Client, args RUMMetricUpdateArgs) (string, error) {
		body := map[string]any{
			"data": map[string]any{
				"attributes": rumMetricAttributes(args.EventType, args.AggregationType, args.Query, args.GroupBy),
				"id":         args.MetricID,
				"type":       "rum_metrics",
			},
		}
		if _, err := c.Patch(ctx, "v2", "rum/metrics/"+args.MetricID, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("RUM metric %s updated successfully.", args.MetricID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_metrics_delete",
		Description: "Permanently delete a RUM-based metric",
		Annotations: destructive("Delete RUM Metric", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMMetricDeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v2", "rum/metrics/"+args.MetricID); err != nil {
			return "", err
		}
		return fmt.Sprintf("RUM metric %s deleted successfully.", args.MetricID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_retention_filters_list",
		Description: "List retention filters of a RUM application",
		Annotations: readOnly("List RUM Retention Filters"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMRetentionFiltersListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/applications/"+args.AppID+"/retention_filters", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_retention_filters_get",
		Description: "Get a retention filter of a RUM application",
		Annotations: readOnly("Get RUM Retention Filter"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMRetentionFilterGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/applications/"+args.AppID+"/retention_filters/"+args.FilterID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_retention_filters_create",
		Description: "Create a retention filter on a RUM application",
		Annotations: writeTool("Create RUM Retention Filter", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMRetentionFilterCreateArgs) (string, error) {
		filterType := args.FilterType
		if filterType == "" {
			filterType = "session-replay"
		}
		query := args.Query
		if query == "" {
			query = "*"
		}
		sampleRate := args.SampleRate
		if sampleRate == 0 {
			sampleRate = 100
		}
		enabled := true
		if args.Enabled != nil {
			enabled = *args.Enabled
		}
		body := map[string]any{
			"data": map[string]any{
				"attributes": map[string]any{
					"name":        args.Name,
					"event_type":  filterType,
					"query":       query,
					"sample_rate": sampleRate,
					"enabled":     enabled,
				},
				"type": "retention_filters",
			},
		}
		if _, err := c.Post(ctx, "v2", "rum/applications/"+args.AppID+"/retention_filters", body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Retention filter %q created on application %s.", args.Name, args.AppID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_retention_filters_update",
		Description: "Update a retention filter on a RUM application",
		Annotations: writeTool("Update RUM Retention Filter", true),
	}, func(ctx context.Context, c *ddapi.Client, args RUMRetentionFilterUpdateArgs) (string, error) {
		attrs := map[string]any{}
		if args.Name != "" {
			attrs["name"] = args.Name
		}
		if args.Query != "" {
			attrs["query"] = args.Query
		}
		if args.SampleRate != 0 {
			attrs["sample_rate"] = args.SampleRate
		}
		if args.Enabled != nil {
			attrs["enabled"] = *args.Enabled
		}
		body := map[string]any{
			"data": map[string]any{
				"attributes": attrs,
				"id":         args.FilterID,
				"type":       "retention_filters",
			},
		}
		if _, err := c.Patch(ctx, "v2", "rum/applications/"+args.AppID+"/retention_filters/"+args.FilterID, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Retention filter %s updated successfully.", args.FilterID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_retention_filters_delete",
		Description: "Permanently delete a retention filter from a RUM application",
		Annotations: destructive("Delete RUM Retention Filter", false),
	}, func(ctx context.Context, c *ddapi.Client, args RUMRetentionFilterDeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v2", "rum/applications/"+args.AppID+"/retention_filters/"+args.FilterID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Retention filter %s deleted successfully.", args.FilterID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_sessions_list",
		Description: "List recent RUM events across applications",
		Annotations: readOnly("List RUM Sessions"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMSessionsListArgs) (string, error) {
		data, err := rumEventsSearch(ctx, c, "", args.From, args.To, args.Limit)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), rumSessionsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_sessions_search",
		Description: "Search RUM events with query syntax",
		Annotations: readOnly("Search RUM Sessions"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMSessionsSearchArgs) (string, error) {
		data, err := rumEventsSearch(ctx, c, args.Query, args.From, args.To, args.Limit)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), rumSessionsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_playlists_list",
		Description: "List RUM session replay playlists",
		Annotations: readOnly("List RUM Playlists"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMPlaylistsListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/playlists", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_playlists_get",
		Description: "Get a RUM session replay playlist",
		Annotations: readOnly("Get RUM Playlist"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMPlaylistGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "rum/playlists/"+args.PlaylistID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_rum_heatmap_query",
		Description: "Query aggregated RUM interaction data for a view",
		Annotations: readOnly("Query RUM Heatmap"),
	}, func(ctx context.Context, c *ddapi.Client, args RUMHeatmapArgs) (string, error) {
		from := args.From
		if from == "" {
			from = "24h"
		}
		fromSec, toSec, err := timeparse.ParseRange(from, args.To)
		if err != nil {
			return "", err
		}
		q := ddapi.NewParams().
			Str("view", args.View).
			Int64("from", fromSec).
			Int64("to", toSec).
			Values()
		data, err := c.Get(ctx, "v2", "rum/analytics/heatmap", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})
}
