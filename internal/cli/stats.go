package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show importance counts for a day",
	Long: `Count emails per importance level for one day (default: today, UTC).

Examples:
  gmailtriage stats                    # Today
  gmailtriage stats --date 2024-01-15  # One past day
  gmailtriage stats -o json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsDate string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Day in YYYY-MM-DD format (default: today)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx, outputFmt != "json")
	if err != nil {
		return err
	}
	defer a.close()

	var listing *catalog.Listing
	if statsDate == "" {
		listing, err = a.catalog.ListToday(ctx, email.ImportanceLow)
	} else {
		listing, err = a.catalog.ListByDate(ctx, statsDate, email.ImportanceLow)
	}
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}

	return a.write(scoring.GetStats(listing.Emails))
}
