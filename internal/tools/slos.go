package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type SLOsListArgs struct {
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum SLOs to return (default 20; max 100)"`
	Offset         int    `json:"offset,omitempty" jsonschema:"Number of SLOs to skip for pagination"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SLOGetArgs struct {
	SLOID          string `json:"slo_id" jsonschema:"SLO ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SLODeleteArgs struct {
	SLOID string `json:"slo_id" jsonschema:"SLO ID to delete"`
}

func slosMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	slos, _ := m["data"].([]any)
	if len(slos) == 0 {
		return "No SLOs found."
	}
	lines := []string{fmt.Sprintf("# SLOs (%d results)", len(slos)), ""}
	for _, item := range slos {
		slo, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(slo["name"]), format.Scalar(slo["id"])))
		lines = append(lines, fmt.Sprintf("- **Type**: %s", format.Scalar(slo["type"])))
		if thresholds, ok := slo["thresholds"].([]any); ok {
			for _, t := range thresholds {
				th, ok := t.(map[string]any)
				if !ok {
					continue
				}
				lines = append(lines, fmt.Sprintf("- **Target (%s)**: %s%%",
					format.Scalar(th["timeframe"]), format.Scalar(th["target"])))
			}
		}
		if tags := scalarList(slo["tags"]); len(tags) > 0 {
			lines = append(lines, fmt.Sprintf("- **Tags**: %s", strings.Join(tags, ", ")))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerSLOs(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_slos_list",
		Description: "List Datadog service level objectives",
		Annotations: readOnly("List SLOs"),
	}, func(ctx context.Context, c *ddapi.Client, args SLOsListArgs) (string, error) {
		q := ddapi.NewParams().
			Int("limit", pageLimit(args.Limit)).
			Int("offset", args.Offset).
			Values()
		data, err := c.Get(ctx, "v1", "slo", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), slosMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_slos_get",
		Description: "Get details of a service level objective",
		Annotations: readOnly("Get SLO"),
	}, func(ctx context.Context, c *ddapi.Client, args SLOGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "slo/"+args.SLOID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_slos_delete",
		Description: "Permanently delete a service level objective",
		Annotations: destructive("Delete SLO", false),
	}, func(ctx context.Context, c *ddapi.Client, args SLODeleteArgs) (string, error) {
		if _, err := c.Delete(ctx, "v1", "slo/"+args.SLOID); err != nil {
			return "", err
		}
		return fmt.Sprintf("SLO %s deleted successfully.", args.SLOID), nil
	})
}
