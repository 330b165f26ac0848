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

type LogsSearchArgs struct {
	Query          string `json:"query,omitempty" jsonschema:"Log search query (e.g. 'service:web status:error')"`
	From           string `json:"from,omitempty" jsonschema:"Start time: relative (1h / 7d) or Unix timestamp or RFC 3339 (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum log events to return (default 20; max 1000)"`
	Sort           string `json:"sort,omitempty" jsonschema:"Sort order: timestamp or -timestamp (default -timestamp)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

func logsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	events, _ := m["data"].([]any)
	if len(events) == 0 {
		return "No log events found."
	}
	lines := []string{fmt.Sprintf("# Log Events (%d results)", len(events)), ""}
	for _, item := range events {
		ev, ok := item.(map[string]any)
		if !ok {
			continue
		}
		attrs, _ := ev["attributes"].(map[string]any)
		lines = append(lines, fmt.Sprintf("## %s", format.Scalar(attrs["timestamp"])))
		lines = append(lines, fmt.Sprintf("- **Service**: %s", format.Scalar(attrs["service"])))
		lines = append(lines, fmt.Sprintf("- **Status**: %s", format.Scalar(attrs["status"])))
		if msg := format.Scalar(attrs["message"]); msg != "" && msg != "<nil>" {
			lines = append(lines, fmt.Sprintf("- **Message**: %s", msg))
		}
		if tags := scalarList(attrs["tags"]); len(tags) > 0 {
			lines = append(lines, fmt.Sprintf("- **Tags**: %s", strings.Join(tags, ", ")))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerLogs(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_logs_search",
		Description: "Search Datadog log events with query syntax and time range",
		Annotations: readOnly("Search Logs"),
	}, func(ctx context.Context, c *ddapi.Client, args LogsSearchArgs) (string, error) {
		from := args.From
		if from == "" {
			from = "1h"
		}
		fromSec, toSec, err := timeparse.ParseRange(from, args.To)
		if err != nil {
			return "", err
		}
		limit := args.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		if limit > 1000 {
			limit = 1000
		}
		sort := args.Sort
		if sort != "timestamp" {
			sort = "-timestamp"
		}
		query := args.Query
		if query == "" {
			query = "*"
		}
		body := map[string]any{
			"filter": map[string]any{
				"query": query,
				"from":  strconv.FormatInt(fromSec*1000, 10),
				"to":    strconv.FormatInt(toSec*1000, 10),
			},
			"sort": sort,
			"page": map[string]any{"limit": limit},
		}
		data, err := c.Post(ctx, "v2", "logs/events/search", body)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), logsMarkdown), nil
	})
}
