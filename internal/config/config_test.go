package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Datadog.Site != DefaultSite {
		t.Fatalf("expected default site %q, got %q", DefaultSite, cfg.Datadog.Site)
	}
	if cfg.Server.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Server.LogLevel)
	}
	if cfg.Telemetry.Enabled {
		t.Fatal("telemetry should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DD_API_KEY", "api-key-from-env")
	t.Setenv("DD_APP_KEY", "app-key-from-env")
	t.Setenv("DD_SITE", "datadoghq.eu")
	t.Setenv("PUP_LOG_LEVEL", "debug")
	t.Setenv("PUP_TRACE_ENABLED", "true")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Datadog.APIKey != "api-key-from-env" {
		t.Fatalf("api key not applied: %q", cfg.Datadog.APIKey)
	}
	if cfg.Datadog.AppKey != "app-key-from-env" {
		t.Fatalf("app key not applied: %q", cfg.Datadog.AppKey)
	}
	if cfg.Datadog.Site != "datadoghq.eu" {
		t.Fatalf("site not applied: %q", cfg.Datadog.Site)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Fatalf("log level not applied: %q", cfg.Server.LogLevel)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatal("trace enabled not applied")
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pup.yaml")
	content := []byte("datadog:\n  api_key: file-api-key\n  app_key: file-app-key\n  site: us3.datadoghq.com\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Env overrides the file value for the site only.
	t.Setenv("DD_API_KEY", "")
	t.Setenv("DD_APP_KEY", "")
	t.Setenv("DD_SITE", "datadoghq.eu")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Datadog.APIKey != "file-api-key" {
		t.Fatalf("expected file api key, got %q", cfg.Datadog.APIKey)
	}
	if cfg.Datadog.Site != "datadoghq.eu" {
		t.Fatalf("env should override file site, got %q", cfg.Datadog.Site)
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pup.json")
	content := []byte(`{"datadog": {"api_key": "k", "app_key": "a"}, "server": {"log_level": "warn"}}`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Fatalf("expected warn, got %q", cfg.Server.LogLevel)
	}
	// Defaults fill fields the file omits.
	if cfg.Datadog.Site != DefaultSite {
		t.Fatalf("expected default site, got %q", cfg.Datadog.Site)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error with no credentials")
	}

	cfg.Datadog.APIKey = "k"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error with missing app key")
	}

	cfg.Datadog.AppKey = "a"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}
