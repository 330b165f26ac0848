package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type IncidentsListArgs struct {
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum incidents to return (default 20; max 100)"`
	Offset         int    `json:"offset,omitempty" jsonschema:"Number of incidents to skip for pagination"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type IncidentGetArgs struct {
	IncidentID     string `json:"incident_id" jsonschema:"Incident UUID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

func incidentsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	incidents, _ := m["data"].([]any)
	if len(incidents) == 0 {
		return "No incidents found."
	}
	lines := []string{fmt.Sprintf("# Incidents (%d results)", len(incidents)), ""}
	for _, item := range incidents {
		inc, ok := item.(map[string]any)
		if !ok {
			continue
		}
		attrs, _ := inc["attributes"].(map[string]any)
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(attrs["title"]), format.Scalar(inc["id"])))
		lines = append(lines, fmt.Sprintf("- **State**: %s", format.Scalar(attrs["state"])))
		lines = append(lines, fmt.Sprintf("- **Severity**: %s", format.Scalar(attrs["severity"])))
		lines = append(lines, fmt.Sprintf("- **Created**: %s", format.Scalar(attrs["created"])))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerIncidents(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_incidents_list",
		Description: "List Datadog incidents with pagination",
		Annotations: readOnly("List Incidents"),
	}, func(ctx context.Context, c *ddapi.Client, args IncidentsListArgs) (string, error) {
		q := ddapi.NewParams().
			Int("page[size]", pageLimit(args.Limit)).
			Int("page[offset]", args.Offset).
			Values()
		data, err := c.Get(ctx, "v2", "incidents", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), incidentsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_incidents_get",
		Description: "Get details of a single incident",
		Annotations: readOnly("Get Incident"),
	}, func(ctx context.Context, c *ddapi.Client, args IncidentGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "incidents/"+args.IncidentID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})
}
