package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
)

type UsersListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type UserGetArgs struct {
	UserHandle     string `json:"user_handle" jsonschema:"User handle (email address)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

type RolesListArgs struct {
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"Output format: json or markdown"`
}

func usersMarkdown(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return format.GenericMarkdown(data)
	}
	users, _ := m["users"].([]any)
	if len(users) == 0 {
		return "No users found."
	}
	lines := []string{fmt.Sprintf("# Users (%d results)", len(users)), ""}
	for _, item := range users {
		u, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("## %s (%s)", format.Scalar(u["name"]), format.Scalar(u["handle"])))
		lines = append(lines, fmt.Sprintf("- **Role**: %s", format.Scalar(u["access_role"])))
		lines = append(lines, fmt.Sprintf("- **Verified**: %s", format.Scalar(u["verified"])))
		lines = append(lines, fmt.Sprintf("- **Disabled**: %s", format.Scalar(u["disabled"])))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) registerUsers(s *mcp.Server) {
	addTool(r, s, &mcp.Tool{
		Name:        "pup_users_list",
		Description: "List Datadog organization users",
		Annotations: readOnly("List Users"),
	}, func(ctx context.Context, c *ddapi.Client, args UsersListArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "user", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), usersMarkdown), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_users_get",
		Description: "Get details of a user by handle",
		Annotations: readOnly("Get User"),
	}, func(ctx context.Context, c *ddapi.Client, args UserGetArgs) (string, error) {
		data, err := c.Get(ctx, "v1", "user/"+args.UserHandle, nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})

	addTool(r, s, &mcp.Tool{
		Name:        "pup_roles_list",
		Description: "List roles defined in the organization",
		Annotations: readOnly("List Roles"),
	}, func(ctx context.Context, c *ddapi.Client, args RolesListArgs) (string, error) {
		data, err := c.Get(ctx, "v2", "roles", nil)
		if err != nil {
			return "", err
		}
		return format.Output(data, outputFormat(args.ResponseFormat), nil), nil
	})
}
