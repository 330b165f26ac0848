package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type DowntimesListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type DowntimeGetArgs struct {
	DowntimeID     string `json:"downtime_id" jsonschema:"Downtime UUID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type DowntimeCancelArgs struct {
	DowntimeID string `json:"downtime_id" jsonschema:"Downtime UUID to cancel"`
}

func (r *Registry) registerDowntimes(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_downtimes_list",
		Description: "List scheduled Datadog downtimes",
		Annotations: readOnly("List Downtimes"),
	}, func(ctx context.Context, c *ddapi.Client, args DowntimesListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "downtime", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_downtimes_get",
		Description: "Get details of a scheduled downtime",
		Annotations: readOnly("Get Downtime"),
	}, func(ctx context.Context, c *ddapi.Client, args DowntimeGetArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "downtime/"+args.DowntimeID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_downtimes_cancel",
		Description: "Cancel a scheduled downtime",
		Annotations: destructive("Cancel Downtime", true),
	}, func(ctx context.Context, c *ddapi.Client, args DowntimeCancelArgs) (string, error) {
		if _, err := c.Delete(ctx, "v2", "downtime/"+args.DowntimeID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Downtime %s cancelled successfully.", args.DowntimeID), nil
	})
}
