package email

import (
	"fmt"
	"time"
)

// Parser normalizes raw provider messages into summaries
type Parser struct {
	scorer Scorer
	now    func() time.Time
}

// NewParser creates a Parser that annotates summaries using scorer.
// now supplies the fallback timestamp; nil means time.Now.
func NewParser(scorer Scorer, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{scorer: scorer, now: now}
}

// Parse converts one raw message into a Summary. It never fails: missing
// fields become empty strings and a missing delivery time falls back to the
// Date header, then to the current time.
func (p *Parser) Parse(msg *RawMessage) Summary {
	subject, _ := msg.Header("Subject")
	from, _ := msg.Header("From")

	var sender Address
	if from != "" {
		sender = ParseAddress(from)
	}

	labels := msg.LabelIDs
	if labels == nil {
		labels = []string{}
	}

	s := Summary{
		ID:          msg.ID,
		Subject:     subject,
		Sender:      sender.Name,
		SenderEmail: sender.Email,
		Date:        p.timestamp(msg),
		Snippet:     msg.Snippet,
		IsRead:      !containsLabel(labels, LabelUnread),
		Labels:      labels,
	}
	s.Importance = p.scorer.Score(s.SenderEmail, s.Subject, s.Labels)

	return s
}

func (p *Parser) timestamp(msg *RawMessage) time.Time {
	if msg.InternalDate > 0 {
		return time.UnixMilli(msg.InternalDate).UTC()
	}

	if v, ok := msg.Header("Date"); ok {
		if t, err := parseDate(v); err == nil {
			return t.UTC()
		}
	}

	return p.now().UTC()
}

// parseDate attempts to parse various date formats
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
