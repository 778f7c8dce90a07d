package config

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Gmail    GmailConfig    `toml:"gmail"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Bulk     BulkConfig     `toml:"bulk"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	MCP      MCPConfig      `toml:"mcp"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// GmailConfig contains Gmail-specific settings
type GmailConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	TokenPath       string `toml:"token_path"`

	// Service account auth takes precedence over the OAuth token when set
	ServiceAccountPath string `toml:"service_account_path"`
	DelegatedUser      string `toml:"delegated_user"`

	MaxResults              int `toml:"max_results"`
	FetchConcurrency        int `toml:"fetch_concurrency"`
	MaxRetries              int `toml:"max_retries"`
	RetryBackoffMS          int `toml:"retry_backoff_ms"`
	BreakerFailureThreshold int `toml:"breaker_failure_threshold"`
}

// RetryBackoff returns the base retry delay as a duration
func (g GmailConfig) RetryBackoff() time.Duration {
	return time.Duration(g.RetryBackoffMS) * time.Millisecond
}

// UsesServiceAccount reports whether service account credentials are configured
func (g GmailConfig) UsesServiceAccount() bool {
	return g.ServiceAccountPath != ""
}

// ScoringConfig contains the importance rules. Empty lists fall back to
// the built-in keyword and spam indicator lists.
type ScoringConfig struct {
	ImportantDomains []string `toml:"important_domains"`
	UrgentKeywords   []string `toml:"urgent_keywords"`
	SpamIndicators   []string `toml:"spam_indicators"`
}

// BulkConfig contains bulk mutation settings
type BulkConfig struct {
	Concurrency int `toml:"concurrency"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "127.0.0.1",
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
		},
		Gmail: GmailConfig{
			CredentialsPath:         "~/.config/gmail-triage/credentials.json",
			TokenPath:               "~/.config/gmail-triage/token.json",
			MaxResults:              100,
			FetchConcurrency:        8,
			MaxRetries:              2,
			RetryBackoffMS:          250,
			BreakerFailureThreshold: 5,
		},
		Scoring: ScoringConfig{
			ImportantDomains: []string{},
		},
		Bulk: BulkConfig{
			Concurrency: 1,
		},
		Database: DatabaseConfig{
			Path: "~/.local/share/gmail-triage/triage.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
