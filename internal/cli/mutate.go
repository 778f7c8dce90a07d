package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/output"
)

var readCmd = &cobra.Command{
	Use:   "read EMAIL_ID",
	Short: "Mark an email as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], "Email marked as read", (*catalog.Service).MarkRead)
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread EMAIL_ID",
	Short: "Mark an email as unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], "Email marked as unread", (*catalog.Service).MarkUnread)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete EMAIL_ID",
	Short: "Move an email to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], "Email deleted", (*catalog.Service).Delete)
	},
}

var bulkFromFile string

var bulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete [EMAIL_ID...]",
	Short: "Move several emails to the trash",
	Long: `Move several emails to the trash. Every id is attempted; failures are
counted and listed, they do not stop the batch.

Examples:
  gmailtriage bulk-delete 18c1a 18c1b 18c1c
  gmailtriage search from:newsletter@x.com -o json | jq -r '.emails[].id' | gmailtriage bulk-delete --from-file -`,
	RunE: runBulkDelete,
}

func init() {
	rootCmd.AddCommand(readCmd, unreadCmd, deleteCmd, bulkDeleteCmd)
	bulkDeleteCmd.Flags().StringVar(&bulkFromFile, "from-file", "", "Read ids, one per line, from a file ('-' for stdin)")
}

func runMutation(cmd *cobra.Command, id, message string, fn func(*catalog.Service, context.Context, string) error) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := fn(a.catalog, ctx, id); err != nil {
		return err
	}
	return a.write(output.Ack{Message: message, EmailID: id})
}

func runBulkDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids := append([]string{}, args...)
	if bulkFromFile != "" {
		fromFile, err := readIDs(bulkFromFile)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no email ids given")
	}

	a, err := loadApp(ctx, outputFmt != "json")
	if err != nil {
		return err
	}
	defer a.close()

	result := a.catalog.BulkDelete(ctx, ids)
	return a.write(result)
}

// readIDs reads one id per line, skipping blanks and # comments
func readIDs(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open id file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ids: %w", err)
	}
	return ids, nil
}
