package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/database"
)

var (
	historyLimit  int
	historyAction string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded bulk operations",
	Long: `Show recorded bulk operations, newest first.

Examples:
  gmailtriage history
  gmailtriage history --action delete --limit 5`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", database.DefaultHistoryLimit, "Maximum number of operations")
	historyCmd.Flags().StringVar(&historyAction, "action", "", "Filter by action (delete, mark_read, mark_unread)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	switch historyAction {
	case "", catalog.ActionDelete, catalog.ActionMarkRead, catalog.ActionMarkUnread:
	default:
		return fmt.Errorf("unknown action %q", historyAction)
	}

	a, err := loadBase()
	if err != nil {
		return err
	}
	defer a.close()

	ops, err := a.db.ListBulkOperations(cmd.Context(), database.HistoryOptions{
		Action: historyAction,
		Limit:  historyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}
	if ops == nil {
		ops = []database.BulkOperation{}
	}
	return a.write(ops)
}
