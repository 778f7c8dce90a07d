package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/email/gmail"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Gmail",
	Long: `Authenticate with Gmail and store the OAuth token.

On first run this opens a browser for Google sign-in and saves the token to
[gmail] token_path. With [gmail] service_account_path and delegated_user set,
the service account key is used instead and no browser is needed.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadBase()
	if err != nil {
		return err
	}
	defer a.close()

	provider := gmail.New(gmail.OptionsFromConfig(a.cfg.Gmail, a.logger))
	if provider.IsAuthenticated() {
		fmt.Println("Using stored credentials...")
	} else {
		fmt.Println("No stored credentials, starting Google sign-in...")
	}

	if err := provider.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	userEmail, err := provider.GetUserEmail(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Authenticated as: %s\n", userEmail)

	domains, err := a.db.ImportantDomainNames(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved important domains: %d\n", len(domains))
	return nil
}
