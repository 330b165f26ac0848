package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type MonitorsListArgs struct {
	Name           string `json:"name,omitempty" jsonschema:"Filter by monitor name substring"`
	Tags           string `json:"tags,omitempty" jsonschema:"Comma-separated list of monitor tags to filter by"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20; max 100)"`
	Offset         int    `json:"offset,omitempty" jsonschema:"Number of results to skip for pagination"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MonitorGetArgs struct {
	MonitorID      int64  `json:"monitor_id" jsonschema:"Numeric monitor ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MonitorsSearchArgs struct {
	Query          string `json:"query" jsonschema:"Search query (e.g. 'type:metric status:alert')"`
	Page           int    `json:"page,omitempty" jsonschema:"Page number"`
	PerPage        int    `json:"per_page,omitempty" jsonschema:"Results per page (default 30; max 100)"`
	Sort           string `json:"sort,omitempty" jsonschema:"Sort field and direction separated by a comma"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MonitorDeleteArgs struct {
	MonitorID int64 `json:"monitor_id" jsonschema:"Numeric monitor ID to delete"`
}

func monitorsListMarkdown(data any) string {
	monitors, ok := data.([]any)
	if !ok || len(monitors) == 0 {
		return "No monitors found."
	}
	lines := []string{fmt.Sprintf("# Monitors (%d results)", len(monitors)), ""}
	for _, item := range monitors {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(m["name"]), format.Scalar(m["id"])))
		lines = append(lines, fmt.Sprintf("- **Type**: %s", format.Scalar(m["type"])))
		lines = append(lines, fmt.Sprintf("- **Status**: %s", format.Scalar(m["overall_state"])))
		if tags := scalarList(m["tags"]); len(tags) > 0 {
			lines = append(lines, fmt.Sprintf("- **Tags**: %s", strings.Join(tags, ", ")))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func monitorDetailMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	lines := []string{
		fmt.Sprintf("# Monitor: %s", format.Scalar(m["name"])),
		"",
		fmt.Sprintf("- **ID**: %s", format.Scalar(m["id"])),
		fmt.Sprintf("- **Type**: %s", format.Scalar(m["type"])),
		fmt.Sprintf("- **Status**: %s", format.Scalar(m["overall_state"])),
		fmt.Sprintf("- **Query**: `%s`", format.Scalar(m["query"])),
		fmt.Sprintf("- **Message**: %s", format.Scalar(m["message"])),
		fmt.Sprintf("- **Created**: %s", format.Scalar(m["created"])),
		fmt.Sprintf("- **Modified**: %s", format.Scalar(m["modified"])),
	}
	if tags := scalarList(m["tags"]); len(tags) > 0 {
		lines = append(lines, fmt.Sprintf("- **Tags**: %s", strings.Join(tags, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerMonitors(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_monitors_list",
		Description: "List Datadog monitors with optional name/tag filtering",
		Annotations: readOnly("List Monitors"),
	}, func(ctx context.Context, c *ddapi.Client, args MonitorsListArgs) (string, error) {
		limit := pageLimit(args.Limit)
		q := ddapi.NewParams().
			Int("page_size", limit).
			Int("page", args.Offset/limit).
			Str("name", args.Name).
			Str("monitor_tags", args.Tags).
			Values()
		data, err := c.Get(ctx, "v1", "monitor", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), monitorsListMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_monitors_get",
		Description: "Get detailed configuration for a Datadog monitor",
		Annotations: readOnly("Get Monitor"),
	}, func(ctx context.Context, c *ddapi.Client, args MonitorGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", fmt.Sprintf("monitor/%d", args.MonitorID), nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), monitorDetailMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_monitors_search",
		Description: "Search monitors using Datadog query syntax",
		Annotations: readOnly("Search Monitors"),
	}, func(ctx context.Context, c *ddapi.Client, args MonitorsSearchArgs) (string, error) {
		perPage := args.PerPage
		if perPage <= 0 {
			perPage = 30
		}
		q := ddapi.NewParams().
			Str("query", args.Query).
			Int("page", args.Page).
			Int("per_page", perPage).
			Str("sort", args.Sort).
			Values()
		data, err := c.Get(ctx, "v1", "monitor/search", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_monitors_delete",
		Description: "Permanently delete a Datadog monitor",
		Annotations: destructive("Delete Monitor", false),
	}, func(ctx context.Context, c *ddapi.Client, args MonitorDeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v1", fmt.Sprintf("monitor/%d", args.MonitorID)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Monitor %d deleted successfully.", args.MonitorID), nil
	})
}

// scalarList converts a decoded JSON array of scalars to strings.
func scalarList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, format.Scalar(item))
	}
	return out
}
