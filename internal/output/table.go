package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/database"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

// Ack confirms a single-message mutation
type Ack struct {
	Message string `json:"message"`
	EmailID string `json:"email_id"`
}

// DomainAdded reports the outcome of adding an important domain
type DomainAdded struct {
	Domain string `json:"domain"`
	Added  bool   `json:"added"`
}

// Table writes data as a formatted table to w
func Table(w io.Writer, t *Terminal, data interface{}) error {
	switch v := data.(type) {
	case *catalog.Listing:
		return listingTable(w, t, v)
	case *catalog.Explanation:
		return explanation(w, t, v)
	case email.BulkResult:
		return bulkResult(w, v)
	case []database.BulkOperation:
		return operationsTable(w, v)
	case []string:
		return domainsTable(w, v)
	case scoring.Stats:
		return statsTable(w, v)
	case Ack:
		_, err := fmt.Fprintf(w, "%s: %s\n", v.Message, v.EmailID)
		return err
	case DomainAdded:
		return domainAdded(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func listingTable(w io.Writer, t *Terminal, l *catalog.Listing) error {
	if len(l.Emails) == 0 {
		fmt.Fprintln(w, "No emails found.")
		if l.Skipped > 0 {
			fmt.Fprintf(w, "%d email(s) could not be fetched.\n", l.Skipped)
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Score", "ID", "Date", "From", "Subject", "Read")

	rows := make([][]string, 0, len(l.Emails))
	for _, e := range l.Emails {
		read := "yes"
		if !e.IsRead {
			read = "no"
		}
		rows = append(rows, []string{
			t.Color(ImportanceColor(e.Importance), strconv.Itoa(int(e.Importance))),
			e.ID,
			e.Date.UTC().Format("2006-01-02 15:04"),
			truncate(e.SenderEmail, 30),
			truncate(e.Subject, 50),
			read,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := scoring.GetStats(l.Emails)
	fmt.Fprintf(w, "%d email(s): %d high, %d normal, %d low, %d unread\n",
		stats.Total, stats.High, stats.Normal, stats.Low, stats.Unread)
	if l.Skipped > 0 {
		fmt.Fprintf(w, "%d email(s) could not be fetched.\n", l.Skipped)
	}
	return nil
}

func explanation(w io.Writer, t *Terminal, x *catalog.Explanation) error {
	e := x.Email
	from := e.SenderEmail
	if e.Sender != "" && e.Sender != e.SenderEmail {
		from = e.Sender + " <" + e.SenderEmail + ">"
	}

	fmt.Fprintf(w, "ID:       %s\n", e.ID)
	fmt.Fprintf(w, "From:     %s\n", from)
	fmt.Fprintf(w, "Subject:  %s\n", e.Subject)
	fmt.Fprintf(w, "Date:     %s\n", e.Date.UTC().Format("Mon, Jan 02 2006 15:04 MST"))
	fmt.Fprintf(w, "Labels:   %s\n", strings.Join(e.Labels, ", "))
	fmt.Fprintf(w, "Read:     %t\n", e.IsRead)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Score:    %s (%s)\n",
		t.Color(ImportanceColor(x.Result.Score), strconv.Itoa(int(x.Result.Score))), x.Result.Score)
	fmt.Fprintf(w, "Rule:     %s\n", x.Result.Rule)
	fmt.Fprintf(w, "Reason:   %s\n", x.Result.Reason)
	if e.Snippet != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, truncate(e.Snippet, 200))
	}
	return nil
}

func bulkResult(w io.Writer, r email.BulkResult) error {
	fmt.Fprintf(w, "%s: %d requested, %d succeeded, %d failed\n",
		actionLabel(r.Action), r.Requested, r.Succeeded, r.Failed)
	if len(r.FailedIDs) > 0 {
		fmt.Fprintf(w, "Failed: %s\n", strings.Join(r.FailedIDs, ", "))
	}
	return nil
}

func operationsTable(w io.Writer, ops []database.BulkOperation) error {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No bulk operations recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("When", "Action", "Requested", "Succeeded", "Failed", "ID")

	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, []string{
			op.CreatedAt.Local().Format("2006-01-02 15:04"),
			actionLabel(op.Action),
			strconv.Itoa(op.Requested),
			strconv.Itoa(op.Succeeded),
			strconv.Itoa(op.Failed),
			op.ID,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func domainsTable(w io.Writer, domains []string) error {
	if len(domains) == 0 {
		fmt.Fprintln(w, "No important domains configured.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Important domain")
	for _, d := range domains {
		if err := table.Append([]string{d}); err != nil {
			return err
		}
	}
	return table.Render()
}

func domainAdded(w io.Writer, d DomainAdded) error {
	if d.Added {
		_, err := fmt.Fprintf(w, "Added important domain: %s\n", d.Domain)
		return err
	}
	_, err := fmt.Fprintf(w, "Already an important domain: %s\n", d.Domain)
	return err
}

func statsTable(w io.Writer, s scoring.Stats) error {
	fmt.Fprintln(w, "Importance")
	fmt.Fprintln(w, strings.Repeat("-", 20))
	fmt.Fprintf(w, "High:     %d\n", s.High)
	fmt.Fprintf(w, "Normal:   %d\n", s.Normal)
	fmt.Fprintf(w, "Low:      %d\n", s.Low)
	fmt.Fprintf(w, "Unread:   %d\n", s.Unread)
	fmt.Fprintf(w, "Total:    %d\n", s.Total)
	return nil
}

func actionLabel(action string) string {
	switch action {
	case catalog.ActionDelete:
		return "delete"
	case catalog.ActionMarkRead:
		return "mark read"
	case catalog.ActionMarkUnread:
		return "mark unread"
	default:
		return action
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
