// Package config holds pup's configuration: Datadog credentials, server
// options, and telemetry settings. Values are resolved with the precedence
// flag > environment > config file > default; the config struct is populated
// once at startup and never mutated afterwards.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultSite is the Datadog site used when DD_SITE is not set.
const DefaultSite = "datadoghq.com"

// DatadogConfig holds the Datadog API connection settings.
type DatadogConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
	AppKey string `json:"app_key" yaml:"app_key"`
	Site   string `json:"site" yaml:"site"`
}

// ServerConfig holds server-side settings.
type ServerConfig struct {
	LogLevel string `json:"log_level" yaml:"log_level"`
	// MetricsAddr enables a Prometheus /metrics listener when non-empty.
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Endpoint   string  `json:"endpoint" yaml:"endpoint"`
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
}

// Config is the central configuration struct embedding all component configs.
type Config struct {
	Datadog   DatadogConfig   `json:"datadog" yaml:"datadog"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Datadog: DatadogConfig{
			Site: DefaultSite,
		},
		Server: ServerConfig{
			LogLevel: "info",
		},
		Telemetry: TelemetryConfig{
			Endpoint:   "localhost:4318",
			SampleRate: 1.0,
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file, keyed off the
// file extension. Unset fields keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("DD_API_KEY"); v != "" {
		cfg.Datadog.APIKey = v
	}
	if v := os.Getenv("DD_APP_KEY"); v != "" {
		cfg.Datadog.AppKey = v
	}
	if v := os.Getenv("DD_SITE"); v != "" {
		cfg.Datadog.Site = v
	}
	if v := os.Getenv("PUP_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("PUP_METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv("PUP_TRACE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if v := os.Getenv("PUP_TRACE_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
}

// Load resolves the full configuration: file (if path is non-empty), then
// environment overrides, then defaults for anything still unset.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	LoadFromEnv(cfg)
	if cfg.Datadog.Site == "" {
		cfg.Datadog.Site = DefaultSite
	}
	return cfg, nil
}

// Validate checks that required credentials are present. It is called once at
// startup; a failure here is fatal.
func (c *Config) Validate() error {
	if c.Datadog.APIKey == "" {
		return fmt.Errorf("DD_API_KEY must be set in the environment or config file")
	}
	if c.Datadog.AppKey == "" {
		return fmt.Errorf("DD_APP_KEY must be set in the environment or config file")
	}
	if c.Datadog.Site == "" {
		return fmt.Errorf("datadog site must not be empty")
	}
	return nil
}
