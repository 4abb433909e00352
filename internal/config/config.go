package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Docs    DocsConfig    `yaml:"docs"`
	Console ConsoleConfig `yaml:"console"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DocsConfig holds documentation build configuration
type DocsConfig struct {
	SchemaPath   string   `yaml:"schemaPath"`   // Generated OpenAPI document
	OverridePath string   `yaml:"overridePath"` // User override document
	OutputDir    string   `yaml:"outputDir"`    // Where page payloads are written
	ProjectName  string   `yaml:"projectName"`
	Apps         []string `yaml:"apps"` // Restrict to these apps; empty means all
}

// ConsoleConfig holds try-console configuration
type ConsoleConfig struct {
	DataDir      string        `yaml:"dataDir"`      // Durable settings store location
	HistorySize  int           `yaml:"historySize"`  // Max retained execution records
	Debounce     time.Duration `yaml:"debounce"`     // Filter recomputation debounce
	AuthCommand  string        `yaml:"authCommand"`  // External auth hook command, empty disables
	AuthTimeout  time.Duration `yaml:"authTimeout"`  // Bound on one hook invocation
	DefaultHost  string        `yaml:"defaultHost"`  // Fallback request host; empty means portal origin
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Docs: DocsConfig{
			SchemaPath:   "docs/schema.json",
			OverridePath: "docs/configs/custom_schema.json",
			OutputDir:    "docs/site",
			ProjectName:  "apidock",
		},
		Console: ConsoleConfig{
			DataDir:     "./data",
			HistorySize: 1000,
			Debounce:    250 * time.Millisecond,
			AuthTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Console.HistorySize < 0 {
		return fmt.Errorf("invalid history size: %d", c.Console.HistorySize)
	}
	if c.Docs.SchemaPath == "" {
		return fmt.Errorf("docs.schemaPath must not be empty")
	}
	return nil
}
