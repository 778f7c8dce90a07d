package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

var csvHeader = []string{
	"id", "date", "sender", "sender_email", "subject",
	"importance_score", "is_read", "labels", "snippet",
}

// CSV writes summaries as spreadsheet-compatible CSV with a header row
func CSV(w io.Writer, summaries []email.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range summaries {
		record := []string{
			s.ID,
			s.Date.UTC().Format(time.RFC3339),
			s.Sender,
			s.SenderEmail,
			s.Subject,
			strconv.Itoa(int(s.Importance)),
			strconv.FormatBool(s.IsRead),
			strings.Join(s.Labels, ";"),
			s.Snippet,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
