package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Gmail.MaxResults != 100 {
		t.Errorf("expected MaxResults=100, got %d", cfg.Gmail.MaxResults)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.Server.Port)
	}

	if cfg.Bulk.Concurrency != 1 {
		t.Errorf("expected bulk Concurrency=1, got %d", cfg.Bulk.Concurrency)
	}

	if cfg.Gmail.RetryBackoff() != 250*time.Millisecond {
		t.Errorf("expected RetryBackoff=250ms, got %v", cfg.Gmail.RetryBackoff())
	}

	if cfg.Server.ShutdownTimeout() != 10*time.Second {
		t.Errorf("expected ShutdownTimeout=10s, got %v", cfg.Server.ShutdownTimeout())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid max_results",
			modify: func(c *Config) {
				c.Gmail.MaxResults = 0
			},
			wantErr: true,
		},
		{
			name: "invalid server port",
			modify: func(c *Config) {
				c.Server.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "service account without delegated user",
			modify: func(c *Config) {
				c.Gmail.ServiceAccountPath = "/etc/sa.json"
			},
			wantErr: true,
		},
		{
			name: "service account does not need oauth paths",
			modify: func(c *Config) {
				c.Gmail.ServiceAccountPath = "/etc/sa.json"
				c.Gmail.DelegatedUser = "me@example.com"
				c.Gmail.CredentialsPath = ""
				c.Gmail.TokenPath = ""
			},
			wantErr: false,
		},
		{
			name: "zero retries allowed",
			modify: func(c *Config) {
				c.Gmail.MaxRetries = 0
			},
			wantErr: false,
		},
		{
			name: "negative retries",
			modify: func(c *Config) {
				c.Gmail.MaxRetries = -1
			},
			wantErr: true,
		},
		{
			name: "invalid bulk concurrency",
			modify: func(c *Config) {
				c.Bulk.Concurrency = 0
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "verbose"
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			modify: func(c *Config) {
				c.Log.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "invalid mcp transport",
			modify: func(c *Config) {
				c.MCP.Transport = "http"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDatabasePath, filepath.Join(dir, "triage.db"))

	cfg, err := Load(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Gmail.MaxResults != 100 {
		t.Errorf("expected default MaxResults, got %d", cfg.Gmail.MaxResults)
	}
	if cfg.Database.Path != filepath.Join(dir, "triage.db") {
		t.Errorf("expected env database path, got %s", cfg.Database.Path)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[server]
host = "0.0.0.0"
port = 9000

[scoring]
important_domains = ["work.com", "bank.com"]

[bulk]
concurrency = 4

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvServerPort, "9100")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %s, want env override warn", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Format = %s, want json", cfg.Log.Format)
	}
	if len(cfg.Scoring.ImportantDomains) != 2 {
		t.Errorf("expected 2 important domains, got %v", cfg.Scoring.ImportantDomains)
	}
	if cfg.Bulk.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Bulk.Concurrency)
	}
	// untouched sections keep their defaults
	if cfg.Gmail.FetchConcurrency != 8 {
		t.Errorf("FetchConcurrency = %d, want default 8", cfg.Gmail.FetchConcurrency)
	}
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv(EnvServerPort, "eighty")

	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport ="), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()

	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}
