package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export FROM TO",
	Short: "Export scored emails for a date range to CSV or JSON",
	Long: `Export the scored emails received between two UTC days, both inclusive.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of email summaries

Examples:
  gmailtriage export 2024-01-01 2024-01-31 > january.csv
  gmailtriage export 2024-01-01 2024-01-31 --format=json --min-score=3 > urgent.json`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

var (
	exportFormat   string
	exportMinScore int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", int(email.ImportanceLow), "Only export emails scoring at least this")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
	threshold, err := email.ParseImportance(exportMinScore)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	listing, err := a.catalog.ListByRange(ctx, args[0], args[1], threshold)
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}
	a.stopProgress()
	if listing.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d email(s) could not be fetched and are not exported\n", listing.Skipped)
	}

	if exportFormat == "json" {
		return output.JSON(os.Stdout, listing.Emails)
	}
	return output.CSV(os.Stdout, listing.Emails)
}
