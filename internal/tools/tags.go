package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type TagsListArgs struct {
	Source         string `json:"source,omitempty" jsonschema:"Only include tags from this source (e.g. 'chef' or 'user')"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type HostTagsGetArgs struct {
	Host           string `json:"host" jsonschema:"Host name"`
	Source         string `json:"source,omitempty" jsonschema:"Only include tags from this source"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type HostTagsWriteArgs struct {
	Host   string   `json:"host" jsonschema:"Host name"`
	Tags   []string `json:"tags" jsonschema:"Tags in key:value form"`
	Source string   `json:"source,omitempty" jsonschema:"Tag source to attribute the change to"`
}

type HostTagsDeleteArgs struct {
	Host   string `json:"host" jsonschema:"Host name"`
	Source string `json:"source,omitempty" jsonschema:"Only remove tags from this source"`
}

func (r *Registry) registerTags(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_tags_list",
		Description: "List host tags across the infrastructure",
		Annotations: readOnly("List Host Tags"),
	}, func(ctx context.Context, c *ddapi.Client, args TagsListArgs) (string, error) {
		q := ddapi.NewParams().Str("source", args.Source).Values()
		data, err := c.Get(ctx, "v1", "tags/hosts", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_tags_get",
		Description: "Get tags attached to a host",
		Annotations: readOnly("Get Host Tags"),
	}, func(ctx context.Context, c *ddapi.Client, args HostTagsGetArgs) (string, error) {
		q := ddapi.NewParams().Str("source", args.Source).Values()
		data, err := c.Get(ctx, "v1", "tags/hosts/"+args.Host, q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_tags_add",
		Description: "Add tags to a host",
		Annotations: writeTool("Add Host Tags", false),
	}, func(ctx context.Context, c *ddapi.Client, args HostTagsWriteArgs) (string, error) {
		body := map[string]any{"tags": args.Tags}
		if args.Source != "" {
			body["source"] = args.Source
		}
		if _, err := c.Post(ctx, "v1", "tags/hosts/"+args.Host, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %d tag(s) to host %s.", len(args.Tags), args.Host), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_tags_update",
		Description: "Replace all tags on a host",
		Annotations: writeTool("Update Host Tags", true),
	}, func(ctx context.Context, c *ddapi.Client, args HostTagsWriteArgs) (string, error) {
		body := map[string]any{"tags": args.Tags}
		if args.Source != "" {
			body["source"] = args.Source
		}
		if _, err := c.Put(ctx, "v1", "tags/hosts/"+args.Host, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Host %s now carries %d tag(s).", args.Host, len(args.Tags)), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_tags_delete",
		Description: "Remove all tags from a host",
		Annotations: destructive("Delete Host Tags", true),
	}, func(ctx context.Context, c *ddapi.Client, args HostTagsDeleteArgs) (string, error) {
		q := ddapi.NewParams().Str("source", args.Source).Values()
		if _, err := c.Do(ctx, http.MethodDelete, "v1", "tags/hosts/"+args.Host, q, nil); err != nil {
			return "", err
		}
		return fmt.Sprintf("All tags removed from host %s.", args.Host), nil
	})
}
