// Package tools implements the pup tool catalog: every Datadog domain is one
// file registering its tools against the MCP server through a shared helper
// that wires logging, metrics, tracing, and error rendering.
package tools

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/format"
	"github.com/pupmcp/pup/internal/logging"
	"github.com/pupmcp/pup/internal/metrics"
	"github.com/pupmcp/pup/internal/observability"
	"github.com/pupmcp/pup/internal/timeparse"
)

// Entry describes one registered tool for the printed catalog.
type Entry struct {
	Name        string
	Title       string
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
}

// Registry holds the shared API client and records every tool it registers.
type Registry struct {
	client  *ddapi.Client
	entries []Entry
}

// NewRegistry creates a tool registry backed by the given client.
func NewRegistry(c *ddapi.Client) *Registry {
	return &Registry{client: c}
}

// RegisterAll registers every tool group with the MCP server.
func (r *Registry) RegisterAll(s *mcp.Server) {
	r.registerMonitors(s)
	r.registerDashboards(s)
	r.registerMetrics(s)
	r.registerLogs(s)
	r.registerEvents(s)
	r.registerIncidents(s)
	r.registerSLOs(s)
	r.registerSynthetics(s)
	r.registerDowntimes(s)
	r.registerTags(s)
	r.registerUsers(s)
	r.registerRUM(s)
}

// Entries returns the recorded catalog, sorted by tool name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// addTool registers one tool, wrapping its handler with an invocation ID,
// logging, metrics, and a span. Handler errors become readable error results
// rather than protocol errors, so the agent always sees text.
func addTool[In any](r *Registry, s *mcp.Server, tool *mcp.Tool, h func(ctx context.Context, c *ddapi.Client, args In) (string, error)) {
	r.entries = append(r.entries, entryFor(tool))
	mcp.AddTool(s, tool, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		id := uuid.NewString()
		log := logging.Op().With("tool", tool.Name, "invocation_id", id)

		ctx, span := observability.StartSpan(ctx, "pup.tool",
			observability.AttrTool.String(tool.Name),
			observability.AttrInvocationID.String(id),
		)
		defer span.End()

		start := time.Now()
		out, err := h(ctx, r.client, args)
		if err != nil {
			metrics.RecordToolInvocation(tool.Name, "error", time.Since(start))
			observability.SetSpanError(span, err)
			log.Warn("tool failed", "error", err)
			return errResult(err), nil, nil
		}
		metrics.RecordToolInvocation(tool.Name, "ok", time.Since(start))
		observability.SetSpanOK(span)
		log.Debug("tool completed", "duration", time.Since(start))
		return textResult(out), nil, nil
	})
}

func entryFor(tool *mcp.Tool) Entry {
	e := Entry{Name: tool.Name}
	if ann := tool.Annotations; ann != nil {
		e.Title = ann.Title
		e.ReadOnly = ann.ReadOnlyHint
		e.Idempotent = ann.IdempotentHint
		e.Destructive = ann.DestructiveHint != nil && *ann.DestructiveHint
	}
	return e
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: readable(err)}},
		IsError: true,
	}
}

// readable converts any error into actionable text for the agent.
func readable(err error) string {
	var apiErr *ddapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Readable()
	}
	var parseErr *timeparse.ParseError
	if errors.As(err, &parseErr) {
		return "Error: " + parseErr.Error()
	}
	return "Error: " + err.Error()
}

// Annotation constructors. DestructiveHint and OpenWorldHint default to true
// in the protocol, so they are always set explicitly.

func readOnly(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(true),
	}
}

func writeTool(title string, idempotent bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		DestructiveHint: boolPtr(false),
		IdempotentHint:  idempotent,
		OpenWorldHint:   boolPtr(true),
	}
}

func destructive(title string, idempotent bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		DestructiveHint: boolPtr(true),
		IdempotentHint:  idempotent,
		OpenWorldHint:   boolPtr(true),
	}
}

func boolPtr(b bool) *bool { return &b }

// outputFormat maps the response_format argument to a format.Format,
// defaulting to JSON.
func outputFormat(s string) format.Format {
	if s == string(format.Markdown) {
		return format.Markdown
	}
	return format.JSON
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pageLimit applies the default and cap for paginated list tools.
func pageLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
