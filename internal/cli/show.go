package cli

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show EMAIL_ID",
	Short: "Show one email and why it scored as it did",
	Long: `Fetch a single email and show the scoring rule that decided its importance.

Rules are checked in order, the first match wins:
  spam_label        SPAM or promotions label           -> 1
  spam_sender       sender contains a spam indicator   -> 1
  important_domain  sender domain is important         -> 3
  urgent_keyword    subject contains an urgent keyword -> 3
  important_label   Gmail marked it IMPORTANT          -> 3
  default           nothing matched                    -> 2

Examples:
  gmailtriage show 18c1a2b3c4d5e6f7
  gmailtriage show 18c1a2b3c4d5e6f7 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	explanation, err := a.catalog.Explain(ctx, args[0])
	if err != nil {
		return err
	}
	return a.write(explanation)
}
