// Package server assembles the MCP server from configuration: the Datadog
// API client, the tool registry, and the stdio transport.
package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pupmcp/pup/internal/config"
	"github.com/pupmcp/pup/internal/ddapi"
	"github.com/pupmcp/pup/internal/logging"
	"github.com/pupmcp/pup/internal/tools"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "pup"
	Version = "1.0.0"
)

const instructions = "Pup is an MCP server for the Datadog platform. " +
	"It exposes monitors, dashboards, metrics, logs, events, incidents, SLOs, " +
	"synthetic tests, downtimes, host tags, users, and RUM as tools. " +
	"All tools are prefixed with pup_ for clear namespacing. " +
	"Time arguments accept relative expressions (1h, 30m, 7d, 1w), Unix " +
	"timestamps, or RFC 3339 datetimes."

// Server wraps the MCP server together with its tool registry.
type Server struct {
	mcp      *mcp.Server
	registry *tools.Registry
}

// New validates the configuration, builds the Datadog client, and registers
// the full tool catalog.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	client, err := ddapi.New(ddapi.Config{
		APIKey: cfg.Datadog.APIKey,
		AppKey: cfg.Datadog.AppKey,
		Site:   cfg.Datadog.Site,
	})
	if err != nil {
		return nil, err
	}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	registry := tools.NewRegistry(client)
	registry.RegisterAll(s)

	return &Server{mcp: s, registry: registry}, nil
}

// Registry returns the tool registry backing the server.
func (s *Server) Registry() *tools.Registry {
	return s.registry
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	logging.Op().Info("starting MCP server",
		"name", Name, "version", Version, "tools", len(s.registry.Entries()))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
