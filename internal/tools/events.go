package tools

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
	"github.com/pupmcp/pup/internal/timeparse"
)

type EventsListArgs struct {
	From           string `json:"from,omitempty" jsonschema:"Start time: relative (1h / 7d) or Unix timestamp or RFC 3339 (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	Tags           string `json:"tags,omitempty" jsonschema:"Comma-separated tag filter"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type EventsSearchArgs struct {
	Query          string `json:"query,omitempty" jsonschema:"Event search query (default '*')"`
	From           string `json:"from,omitempty" jsonschema:"Start time (default 1h)"`
	To             string `json:"to,omitempty" jsonschema:"End time (default now)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum events to return (default 20; max 100)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type EventGetArgs struct {
	EventID        int64  `json:"event_id" jsonschema:"Numeric event ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

func (r *Registry) registerEvents(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_events_list",
		Description: "List events from the Datadog event stream for a time range",
		Annotations: readOnly("List Events"),
	}, func(ctx context.Context, c *ddapi.Client, args EventsListArgs) (string, error) {
		from := args.From
		if from == "" {
			from = "1h"
		}
		fromSec, toSec, err := timeparse.ParseRange(from, args.To)
		if err != nil {
			return "", err
		}
		q := ddapi.NewParams().
			Int64("start", fromSec).
			Int64("end", toSec).
			Str("tags", args.Tags).
			Values()
		data, err := c.Get(ctx, "v1", "events", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_events_search",
		Description: "Search events with Datadog event query syntax",
		Annotations: readOnly("Search Events"),
	}, func(ctx context.Context, c *ddapi.Client, args EventsSearchArgs) (string, error) {
		from := args.From
		if from == "" {
			from = "1h"
		}
		fromSec, toSec, err := timeparse.ParseRange(from, args.To)
		if err != nil {
			return "", err
		}
		query := args.Query
		if query == "" {
			query = "*"
		}
		body := map[string]any{
			"filter": map[string]any{
				"query": query,
				"from":  strconv.FormatInt(fromSec, 10),
				"to":    strconv.FormatInt(toSec, 10),
			},
			"page": map[string]any{"limit": pageLimit(args.Limit)},
		}
		data, err := c.Post(ctx, "v2", "events/search", body)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_events_get",
		Description: "Get details of a single event by ID",
		Annotations: readOnly("Get Event"),
	}, func(ctx context.Context, c *ddapi.Client, args EventGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "events/"+strconv.FormatInt(args.EventID, 10), nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})
}
