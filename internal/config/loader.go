package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file settings
const (
	EnvServerHost         = "APP_SERVER_HOST"
	EnvServerPort         = "APP_SERVER_PORT"
	EnvServiceAccountPath = "APP_GMAIL_SERVICE_ACCOUNT_PATH"
	EnvDelegatedUser      = "APP_GMAIL_DELEGATED_USER"
	EnvLogLevel           = "APP_LOG_LEVEL"
	EnvDatabasePath       = "APP_DATABASE_PATH"
)

// Load reads and parses the configuration file. A missing file is not an
// error: defaults are used and environment overrides still apply.
func Load(path string) (*Config, error) {
	// A .env file in the working directory is optional
	_ = godotenv.Load()

	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(expandedPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with APP_* environment variables
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvServerHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv(EnvServerPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", EnvServerPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvServiceAccountPath); ok && v != "" {
		c.Gmail.ServiceAccountPath = v
	}
	if v, ok := os.LookupEnv(EnvDelegatedUser); ok && v != "" {
		c.Gmail.DelegatedUser = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvDatabasePath); ok && v != "" {
		c.Database.Path = v
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	paths := []*string{
		&c.Gmail.CredentialsPath,
		&c.Gmail.TokenPath,
		&c.Gmail.ServiceAccountPath,
		&c.Database.Path,
	}

	for _, p := range paths {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server.port must be between 1 and 65535"))
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout_seconds must not be negative"))
	}

	// Gmail validation
	if c.Gmail.UsesServiceAccount() {
		if c.Gmail.DelegatedUser == "" {
			errs = append(errs, errors.New("gmail.delegated_user is required with gmail.service_account_path"))
		}
	} else {
		if c.Gmail.CredentialsPath == "" {
			errs = append(errs, errors.New("gmail.credentials_path is required"))
		}
		if c.Gmail.TokenPath == "" {
			errs = append(errs, errors.New("gmail.token_path is required"))
		}
	}
	if c.Gmail.MaxResults < 1 || c.Gmail.MaxResults > 500 {
		errs = append(errs, errors.New("gmail.max_results must be between 1 and 500"))
	}
	if c.Gmail.FetchConcurrency < 1 {
		errs = append(errs, errors.New("gmail.fetch_concurrency must be at least 1"))
	}
	if c.Gmail.MaxRetries < 0 {
		errs = append(errs, errors.New("gmail.max_retries must not be negative"))
	}
	if c.Gmail.RetryBackoffMS < 0 {
		errs = append(errs, errors.New("gmail.retry_backoff_ms must not be negative"))
	}
	if c.Gmail.BreakerFailureThreshold < 1 {
		errs = append(errs, errors.New("gmail.breaker_failure_threshold must be at least 1"))
	}

	// Bulk validation
	if c.Bulk.Concurrency < 1 {
		errs = append(errs, errors.New("bulk.concurrency must be at least 1"))
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be 'json' or 'console', got '%s'", c.Log.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// EnsureDirectories creates necessary directories for database and config
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		filepath.Dir(c.Gmail.TokenPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
