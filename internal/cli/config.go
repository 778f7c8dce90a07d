package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/config"
	"github.com/vijay-prabhu/gmail-triage/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display effective configuration (file, environment and defaults)",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file already exists at %s\n", configPath)
		fmt.Println("Use 'gmailtriage config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Create an OAuth client (Desktop app) in Google Cloud Console with the Gmail API enabled")
	fmt.Printf("  2. Save its credentials.json to %s/\n", configDir)
	fmt.Println("  3. Run 'gmailtriage auth' to sign in")
	fmt.Println("  4. Run 'gmailtriage today' or 'gmailtriage serve'")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return output.JSON(os.Stdout, cfg)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("# Config file: %s\n\n", configPath)
	} else {
		fmt.Printf("# No config file at %s, showing defaults\n\n", configPath)
	}
	fmt.Print(string(data))
	return nil
}

const defaultConfig = `# gmail-triage configuration

[server]
host = "127.0.0.1"
port = 8080
shutdown_timeout_seconds = 10

[gmail]
credentials_path = "~/.config/gmail-triage/credentials.json"
token_path = "~/.config/gmail-triage/token.json"
# Service account with domain-wide delegation (Workspace only). When set,
# delegated_user is required and the OAuth browser flow is skipped.
# service_account_path = "~/.config/gmail-triage/service-account.json"
# delegated_user = "me@example.com"
max_results = 100           # upper bound for date, range and search listings
fetch_concurrency = 8       # parallel message fetches per listing
max_retries = 2             # retries for rate limits and 5xx, 0 disables
retry_backoff_ms = 250      # first retry delay, doubled each attempt
breaker_failure_threshold = 5

[scoring]
# Senders from these domains always score 3
important_domains = []
urgent_keywords = ["urgent", "important", "asap", "action required", "critical"]
spam_indicators = ["noreply", "newsletter", "marketing", "promo", "unsubscribe"]

[bulk]
concurrency = 1   # 1 processes ids one at a time

[database]
path = "~/.local/share/gmail-triage/triage.db"

[log]
level = "info"      # debug, info, warn, error
format = "console"  # console or json

[mcp]
enabled = true
transport = "stdio"
`
