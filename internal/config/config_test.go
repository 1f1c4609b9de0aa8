package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/focos/internal/constants"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "focos.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Rollover.Interval != constants.DefaultRolloverInterval {
		t.Errorf("Interval = %v", cfg.Rollover.Interval)
	}
	if cfg.Server.Addr != constants.DefaultServerAddr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if filepath.Base(cfg.Storage.DSN) != "focos.db" {
		t.Errorf("DSN = %q", cfg.Storage.DSN)
	}
}

func TestLoadYAMLWithExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "focos.yaml")
	writeFile(t, path, `
storage:
  dsn: ${FOCOS_TEST_DSN:/tmp/fallback.db}
rollover:
  interval: 5m
server:
  addr: 0.0.0.0:9000
  allowed_origins:
    - http://localhost:5173
assistant:
  model: local-llm
  timeout: 10s
`)
	t.Setenv("FOCOS_TEST_DSN", filepath.Join(dir, "state.json"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Storage.DSN != filepath.Join(dir, "state.json") {
		t.Errorf("DSN = %q", cfg.Storage.DSN)
	}
	if cfg.Rollover.Interval != 5*time.Minute {
		t.Errorf("Interval = %v, want 5m", cfg.Rollover.Interval)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Assistant.Model != "local-llm" || cfg.Assistant.Timeout != 10*time.Second {
		t.Errorf("Assistant = %+v", cfg.Assistant)
	}
	// Untouched sections keep their defaults.
	if cfg.Assistant.APIKeyEnv != "FOCOS_ASSISTANT_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.Assistant.APIKeyEnv)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOCOS_DB", ":memory:")
	t.Setenv("FOCOS_DEBUG", "true")
	t.Setenv("FOCOS_ROLLOVER_INTERVAL", "30s")
	t.Setenv("FOCOS_ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Storage.DSN != ":memory:" {
		t.Errorf("DSN = %q", cfg.Storage.DSN)
	}
	if !cfg.Logging.Debug {
		t.Error("Debug not overridden")
	}
	if cfg.Rollover.Interval != 30*time.Second {
		t.Errorf("Interval = %v", cfg.Rollover.Interval)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestDotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "FOCOS_SERVER_ADDR=127.0.0.1:1234\n")
	t.Setenv("FOCOS_SERVER_ADDR", "")
	os.Unsetenv("FOCOS_SERVER_ADDR")

	cfg, err := Load(filepath.Join(dir, "focos.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:1234" {
		t.Errorf("Addr = %q, want value from .env", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty dsn", func(c *Config) { c.Storage.DSN = " " }, true},
		{"interval too short", func(c *Config) { c.Rollover.Interval = time.Millisecond }, true},
		{"zero assistant timeout", func(c *Config) { c.Assistant.Timeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/focos.db"); got != filepath.Join(home, "focos.db") {
		t.Errorf("ExpandPath(~/focos.db) = %q", got)
	}
	if got := ExpandPath("/abs/focos.db"); got != "/abs/focos.db" {
		t.Errorf("ExpandPath(/abs) = %q", got)
	}
}
