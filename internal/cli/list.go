package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/query"
)

var (
	listLimit    int
	listMinScore int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent emails",
	Long: `List the most recent emails with their importance scores.

Examples:
  gmailtriage recent              # Newest 50 emails
  gmailtriage recent --limit 10   # Newest 10 emails
  gmailtriage recent -o json      # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, svc *catalog.Service, _ email.Importance) (*catalog.Listing, error) {
			return svc.ListRecent(ctx, listLimit)
		})
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List emails received today (UTC)",
	Long: `List emails received today (UTC).

Examples:
  gmailtriage today                 # Everything from today
  gmailtriage today --min-score 3   # Only high importance`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, svc *catalog.Service, threshold email.Importance) (*catalog.Listing, error) {
			return svc.ListToday(ctx, threshold)
		})
	},
}

var dateCmd = &cobra.Command{
	Use:   "date YYYY-MM-DD",
	Short: "List emails received on one day (UTC)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, svc *catalog.Service, threshold email.Importance) (*catalog.Listing, error) {
			return svc.ListByDate(ctx, args[0], threshold)
		})
	},
}

var rangeCmd = &cobra.Command{
	Use:   "range FROM TO",
	Short: "List emails received between two days, both inclusive",
	Long: `List emails received between two UTC days, both inclusive.

Examples:
  gmailtriage range 2024-01-01 2024-01-07
  gmailtriage range 2024-01-01 2024-01-31 --min-score 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, func(ctx context.Context, svc *catalog.Service, threshold email.Importance) (*catalog.Listing, error) {
			return svc.ListByRange(ctx, args[0], args[1], threshold)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search emails with Gmail query syntax",
	Long: `Search emails using Gmail's query syntax. All arguments are joined
into one query.

Examples:
  gmailtriage search from:boss@example.com
  gmailtriage search is:unread has:attachment --min-score 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		return runListing(cmd, func(ctx context.Context, svc *catalog.Service, threshold email.Importance) (*catalog.Listing, error) {
			return svc.Search(ctx, text, threshold)
		})
	},
}

func init() {
	rootCmd.AddCommand(recentCmd, todayCmd, dateCmd, rangeCmd, searchCmd)

	recentCmd.Flags().IntVar(&listLimit, "limit", query.DefaultLimit, "Maximum number of emails")

	for _, cmd := range []*cobra.Command{todayCmd, dateCmd, rangeCmd, searchCmd} {
		cmd.Flags().IntVar(&listMinScore, "min-score", int(email.ImportanceLow),
			"Only show emails scoring at least this (1 low, 2 normal, 3 high)")
	}
}

type listFunc func(ctx context.Context, svc *catalog.Service, threshold email.Importance) (*catalog.Listing, error)

func runListing(cmd *cobra.Command, fn listFunc) error {
	ctx := cmd.Context()

	// Reject a bad threshold before authenticating
	threshold, err := email.ParseImportance(listMinScore)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx, outputFmt != "json")
	if err != nil {
		return err
	}
	defer a.close()

	listing, err := fn(ctx, a.catalog, threshold)
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}

	return a.write(listing)
}
