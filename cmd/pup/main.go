package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pupmcp/pup/internal/config"
	"github.com/pupmcp/pup/internal/logging"
	"github.com/pupmcp/pup/internal/metrics"
	"github.com/pupmcp/pup/internal/observability"
	"github.com/pupmcp/pup/internal/server"
	"github.com/pupmcp/pup/internal/tools"
)

var (
	configPath  string
	logLevel    string
	metricsAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pup",
		Short: "Pup - Datadog MCP server",
		Long:  "An MCP server exposing the Datadog API as tools over stdio",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (disabled if empty)")

	rootCmd.AddCommand(
		serveCmd(),
		toolsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if metricsAddr != "" {
		cfg.Server.MetricsAddr = metricsAddr
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logging.SetLevelFromString(cfg.Server.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Telemetry.Enabled {
				err := observability.Init(ctx, observability.Config{
					Enabled:     true,
					Endpoint:    cfg.Telemetry.Endpoint,
					ServiceName: server.Name,
					Version:     server.Version,
					SampleRate:  cfg.Telemetry.SampleRate,
				})
				if err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
				defer func() {
					if err := observability.Shutdown(context.Background()); err != nil {
						logging.Op().Warn("telemetry shutdown failed", "error", err)
					}
				}()
			}

			if cfg.Server.MetricsAddr != "" {
				metrics.Init("pup")
				go serveMetrics(cfg.Server.MetricsAddr)
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logging.Op().Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Op().Error("metrics server failed", "error", err)
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// Credentials are not needed to print the catalog.
			if cfg.Datadog.APIKey == "" {
				cfg.Datadog.APIKey = "unset"
			}
			if cfg.Datadog.AppKey == "" {
				cfg.Datadog.AppKey = "unset"
			}
			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tACCESS")
			for _, e := range srv.Registry().Entries() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Title, accessLabel(e))
			}
			return w.Flush()
		},
	}
}

func accessLabel(e tools.Entry) string {
	switch {
	case e.ReadOnly:
		return "read-only"
	case e.Destructive:
		return "destructive"
	default:
		return "write"
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s %s\n", server.Name, server.Version)
		},
	}
}
