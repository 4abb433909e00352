package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Docs.SchemaPath == "" {
		t.Error("Docs.SchemaPath should have a default")
	}
	if cfg.Console.HistorySize != 1000 {
		t.Errorf("Console.HistorySize = %d, want 1000", cfg.Console.HistorySize)
	}
	if cfg.Console.Debounce != 250*time.Millisecond {
		t.Errorf("Console.Debounce = %v, want 250ms", cfg.Console.Debounce)
	}
	if cfg.Console.AuthTimeout != 10*time.Second {
		t.Errorf("Console.AuthTimeout = %v, want 10s", cfg.Console.AuthTimeout)
	}
	if cfg.Console.AuthCommand != "" {
		t.Error("auth hook should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	content := `
server:
  port: 9090
  host: 127.0.0.1
docs:
  schemaPath: schema.json
  apps:
    - shop
    - blog
console:
  historySize: 50
  debounce: 100ms
  authCommand: "get-token"
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Docs.SchemaPath != "schema.json" {
		t.Errorf("Docs.SchemaPath = %q", cfg.Docs.SchemaPath)
	}
	if len(cfg.Docs.Apps) != 2 || cfg.Docs.Apps[0] != "shop" {
		t.Errorf("Docs.Apps = %v", cfg.Docs.Apps)
	}
	if cfg.Console.HistorySize != 50 {
		t.Errorf("Console.HistorySize = %d, want 50", cfg.Console.HistorySize)
	}
	if cfg.Console.Debounce != 100*time.Millisecond {
		t.Errorf("Console.Debounce = %v, want 100ms", cfg.Console.Debounce)
	}
	if cfg.Console.AuthCommand != "get-token" {
		t.Errorf("Console.AuthCommand = %q", cfg.Console.AuthCommand)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults
	if cfg.Console.AuthTimeout != 10*time.Second {
		t.Errorf("Console.AuthTimeout = %v, want default 10s", cfg.Console.AuthTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative history", func(c *Config) { c.Console.HistorySize = -1 }, true},
		{"empty schema path", func(c *Config) { c.Docs.SchemaPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
