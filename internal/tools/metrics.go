package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
	"github.com/pupmcp/pup/internal/timeparse"
)

type MetricsQueryArgs struct {
	Query          string `json:"query" jsonschema:"Metric query (e.g. 'avg:system.cpu.user{*}')"`
	From           string `json:"from,omitempty" jsonschema:"Start time: relative (1h / 7d) or Unix timestamp or RFC 3339 (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MetricsSearchArgs struct {
	Query          string `json:"query" jsonschema:"Metric name substring to search for"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MetricsListArgs struct {
	Filter         string `json:"filter,omitempty" jsonschema:"Tag filter (e.g. 'env:prod')"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type MetricsSubmitArgs struct {
	Metric string   `json:"metric" jsonschema:"Metric name (e.g. 'custom.deploy.count')"`
	Value  float64  `json:"value" jsonschema:"Metric value at the current time"`
	Type   string   `json:"type,omitempty" jsonschema:"Metric type: gauge count or rate (default gauge)"`
	Tags   []string `json:"tags,omitempty" jsonschema:"Tags in key:value form"`
	Host   string   `json:"host,omitempty" jsonschema:"Host name to attach to the point"`
}

func (r *Registry) registerMetrics(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_metrics_query",
		Description: "Query timeseries data for a Datadog metric over a time range",
		Annotations: readOnly("Query Metrics"),
	}, func(ctx context.Context, c *ddapi.Client, args MetricsQueryArgs) (string, error) {
		from := args.From
		if from == "" {
			from = "1h"
		}
		fromSec, toSec, err := timeparse.ParseRange(from, args.To)
		if err != nil {
			return "", err
		}
		q := ddapi.NewParams().
			Str("query", args.Query).
			Int64("from", fromSec).
			Int64("to", toSec).
			Values()
		data, err := c.Get(ctx, "v1", "query", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_metrics_search",
		Description: "Search for metrics by name",
		Annotations: readOnly("Search Metrics"),
	}, func(ctx context.Context, c *ddapi.Client, args MetricsSearchArgs) (string, error) {
		q := ddapi.NewParams().Str("q", "metrics:"+args.Query).Values()
		data, err := c.Get(ctx, "v1", "search", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_metrics_list",
		Description: "List metrics actively reporting in the last hour",
		Annotations: readOnly("List Active Metrics"),
	}, func(ctx context.Context, c *ddapi.Client, args MetricsListArgs) (string, error) {
		q := ddapi.NewParams().
			Int64("from", timeparse.Now()-3600).
			Str("filter[tags]", args.Filter).
			Values()
		data, err := c.Get(ctx, "v1", "metrics", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_metrics_submit",
		Description: "Submit a custom metric point to Datadog",
		Annotations: writeTool("Submit Metric", false),
	}, func(ctx context.Context, c *ddapi.Client, args MetricsSubmitArgs) (string, error) {
		mtype := args.Type
		if mtype == "" {
			mtype = "gauge"
		}
		series := map[string]any{
			"metric": args.Metric,
			"type":   mtype,
			"points": [][]any{{timeparse.Now(), args.Value}},
		}
		if len(args.Tags) > 0 {
			series["tags"] = args.Tags
		}
		if args.Host != "" {
			series["host"] = args.Host
		}
		body := map[string]any{"series": []any{series}}
		if _, err := c.Post(ctx, "v1", "series", body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Metric %s submitted successfully.", args.Metric), nil
	})
}
