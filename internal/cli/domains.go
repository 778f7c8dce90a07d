package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/output"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Manage important sender domains",
	Long: `Senders from an important domain always score 3, unless the message
is labelled spam or promotions.

Domains come from [scoring] important_domains in the config file plus any
added with 'domains add', which are stored in the local database.`,
}

var domainsAddCmd = &cobra.Command{
	Use:   "add DOMAIN",
	Short: "Add an important domain",
	Args:  cobra.ExactArgs(1),
	RunE:  runDomainsAdd,
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List important domains",
	Args:  cobra.NoArgs,
	RunE:  runDomainsList,
}

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.AddCommand(domainsAddCmd, domainsListCmd)
}

func runDomainsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	domain, ok := scoring.ValidateDomain(args[0])
	if !ok {
		return email.Validationf("invalid domain: %q", args[0])
	}

	a, err := loadBase()
	if err != nil {
		return err
	}
	defer a.close()

	scorer, err := a.scorer(ctx)
	if err != nil {
		return err
	}
	if scorer.Rules().HasDomain(domain) {
		return a.write(output.DomainAdded{Domain: domain, Added: false})
	}

	if err := a.db.SaveImportantDomain(ctx, domain); err != nil {
		return fmt.Errorf("failed to save domain: %w", err)
	}
	return a.write(output.DomainAdded{Domain: domain, Added: true})
}

func runDomainsList(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}
	defer a.close()

	scorer, err := a.scorer(cmd.Context())
	if err != nil {
		return err
	}
	return a.write(scorer.Rules().ImportantDomains())
}
