package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type SyntheticsTestsListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SyntheticsTestGetArgs struct {
	PublicID       string `json:"public_id" jsonschema:"Synthetic test public ID (e.g. 'abc-def-ghi')"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SyntheticsTestsSearchArgs struct {
	Text           string `json:"text,omitempty" jsonschema:"Free-text filter"`
	Count          int    `json:"count,omitempty" jsonschema:"Maximum results (default 50)"`
	Start          int    `json:"start,omitempty" jsonschema:"Result offset for pagination"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SyntheticsLocationsArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type SyntheticsAPITestCreateArgs struct {
	Name      string         `json:"name" jsonschema:"Test name"`
	Subtype   string         `json:"subtype,omitempty" jsonschema:"API test subtype: http ssl tcp or dns (default http)"`
	Config    map[string]any `json:"config" jsonschema:"Test config with request and assertions"`
	Locations []string       `json:"locations" jsonschema:"Location IDs to run from (e.g. 'aws:us-east-1')"`
	Options   map[string]any `json:"options,omitempty" jsonschema:"Test options such as tick_every"`
	Message   string         `json:"message,omitempty" jsonschema:"Notification message"`
	Tags      []string       `json:"tags,omitempty" jsonschema:"Tags in key:value form"`
	Status    string         `json:"status,omitempty" jsonschema:"Initial status: live or paused"`
}

type SyntheticsAPITestUpdateArgs struct {
	PublicID  string         `json:"public_id" jsonschema:"Public ID of the test to update"`
	Name      string         `json:"name" jsonschema:"Test name"`
	Subtype   string         `json:"subtype,omitempty" jsonschema:"API test subtype (default http)"`
	Config    map[string]any `json:"config" jsonschema:"Test config with request and assertions"`
	Locations []string       `json:"locations" jsonschema:"Location IDs to run from"`
	Options   map[string]any `json:"options,omitempty" jsonschema:"Test options such as tick_every"`
	Message   string         `json:"message,omitempty" jsonschema:"Notification message"`
	Tags      []string       `json:"tags,omitempty" jsonschema:"Tags in key:value form"`
	Status    string         `json:"status,omitempty" jsonschema:"Status: live or paused"`
}

type SyntheticsTestsDeleteArgs struct {
	PublicIDs []string `json:"public_ids" jsonschema:"Public IDs of the tests to delete"`
}

func syntheticsTestsMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	tests, _ := m["tests"].([]any)
	if len(tests) == 0 {
		return "No synthetic tests found."
	}
	lines := []string{fmt.Sprintf("# Synthetic Tests (%d results)", len(tests)), ""}
	for _, item := range tests {
		t, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s (ID: %s)", format.Scalar(t["name"]), format.Scalar(t["public_id"])))
		lines = append(lines, fmt.Sprintf("- **Type**: %s", format.Scalar(t["type"])))
		lines = append(lines, fmt.Sprintf("- **Status**: %s", format.Scalar(t["status"])))
		if locs := scalarList(t["locations"]); len(locs) > 0 {
			lines = append(lines, fmt.Sprintf("- **Locations**: %s", strings.Join(locs, ", ")))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func apiTestBody(name, subtype string, config map[string]any, locations []string,
	options map[string]any, message string, tags []string, status string) map[string]any {
	if subtype == "" {
		subtype = "http"
	}
	body := map[string]any{
		"name":      name,
		"type":      "api",
		"subtype":   subtype,
		"config":    config,
		"locations": locations,
	}
	if options != nil {
		body["options"] = options
	}
	if message != "" {
		body["message"] = message
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}
	if status != "" {
		body["status"] = status
	}
	return body
}

func (r *Registry) registerSynthetics(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_tests_list",
		Description: "List all Datadog synthetic tests",
		Annotations: readOnly("List Synthetic Tests"),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsTestsListArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "synthetics/tests", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), syntheticsTestsMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_tests_get",
		Description: "Get configuration of a synthetic test",
		Annotations: readOnly("Get Synthetic Test"),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsTestGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "synthetics/tests/"+args.PublicID, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_tests_search",
		Description: "Search synthetic tests by free text",
		Annotations: readOnly("Search Synthetic Tests"),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsTestsSearchArgs) (string, error) {
		count := args.Count
		if count <= 0 {
			count = 50
		}
		q := ddapi.NewParams().
			Int("count", count).
			Int("start", args.Start).
			Str("text", args.Text).
			Values()
		data, err := c.Get(ctx, "v1", "synthetics/tests/search", q)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_locations",
		Description: "List available synthetic test locations",
		Annotations: readOnly("List Synthetic Locations"),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsLocationsArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "synthetics/locations", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_api_test_create",
		Description: "Create a synthetic API test",
		Annotations: writeTool("Create Synthetic API Test", false),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsAPITestCreateArgs) (string, error) {
		body := apiTestBody(args.Name, args.Subtype, args.Config, args.Locations,
			args.Options, args.Message, args.Tags, args.Status)
		data, err := c.Post(ctx, "v1", "synthetics/tests/api", body)
		if err != nil {
			return "", err
		}
		publicID := ""
		if m, ok := data.(map[string]any); ok {
			publicID = format.Scalar(m["public_id"])
		}
		return fmt.Sprintf("Synthetic API test %q created (public ID: %s).", args.Name, publicID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_api_test_update",
		Description: "Replace the configuration of a synthetic API test",
		Annotations: writeTool("Update Synthetic API Test", true),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsAPITestUpdateArgs) (string, error) {
		body := apiTestBody(args.Name, args.Subtype, args.Config, args.Locations,
			args.Options, args.Message, args.Tags, args.Status)
		if _, err := c.Put(ctx, "v1", "synthetics/tests/api/"+args.PublicID, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Synthetic API test %s updated successfully.", args.PublicID), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_synthetics_tests_delete",
		Description: "Permanently delete synthetic tests by public ID",
		Annotations: destructive("Delete Synthetic Tests", false),
	}, func(ctx context.Context, c *ddapi.Client, args SyntheticsTestsDeleteArgs) (string, error) {
		body := map[string]any{"public_ids": args.PublicIDs}
		if _, err := c.Post(ctx, "v1", "synthetics/tests/delete", body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %d synthetic test(s) successfully.", len(args.PublicIDs)), nil
	})
}
