package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type DashboardsListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type DashboardGetArgs struct {
	DashboardID    string `json:"dashboard_id" jsonschema:"Dashboard ID (e.g. 'abc-def-ghi')"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type DashboardDeleteArgs struct {
	DashboardID string `json:"dashboard_id" jsonschema:"Dashboard ID to delete"`
}

func dashboardsListMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	dashboards, _ := m["dashboards"].([]any)
	if len(dashboards) == 0 {
		return "No dashboards found."
	}
	lines := []string{fmt.Sprintf("# Dashboards (%d results)", len(dashboards)), ""}
	for _, item := range dashboards {
		d, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(d["title"]), format.Scalar(d["id"])))
		lines = append(lines, fmt.Sprintf("- **Author**: %s", format.Scalar(d["author_handle"])))
		lines = append(lines, fmt.Sprintf("- **Modified**: %s", format.Scalar(d["modified_at"])))
		lines = append(lines, fmt.Sprintf("- **URL**: %s", format.Scalar(d["url"])))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func dashboardDetailMarkdown(data any) string {
	d, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	widgets, _ := d["widgets"].([]any)
	lines := []string{
		fmt.Sprintf("# Dashboard: %s", format.Scalar(d["title"])),
		"",
		fmt.Sprintf("- **ID**: %s", format.Scalar(d["id"])),
		fmt.Sprintf("- **Layout**: %s", format.Scalar(d["layout_type"])),
		fmt.Sprintf("- **Author**: %s", format.Scalar(d["author_handle"])),
		fmt.Sprintf("- **Widgets**: %d", len(widgets)),
		fmt.Sprintf("- **URL**: %s", format.Scalar(d["url"])),
	}
	if desc := format.Scalar(d["description"]); desc != "" && desc != "<nil>" {
		lines = append(lines, fmt.Sprintf("- **Description**: %s", desc))
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerDashboards(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_dashboards_list",
		Description: "List all Datadog dashboards",
		Annotations: readOnly("List Dashboards"),
	}, func(ctx context.Context, c *ddapi.Client, args DashboardsListArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "dashboard", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), dashboardsListMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_dashboards_get",
		Description: "Get full definition of a Datadog dashboard",
		Annotations: readOnly("Get Dashboard"),
	}, func(ctx context.Context, c *ddapi.Client, args DashboardGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "dashboard/"+args.DashboardID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), dashboardDetailMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_dashboards_delete",
		Description: "Permanently delete a Datadog dashboard",
		Annotations: destructive("Delete Dashboard", false),
	}, func(ctx context.Context, c *ddapi.Client, args DashboardDeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v1", "dashboard/"+args.DashboardID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Dashboard %s deleted successfully.", args.DashboardID), nil
	})
}
