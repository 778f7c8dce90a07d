// Package query turns high-level listing filters into provider search queries.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// DateLayout is the only accepted date format for filter input
const DateLayout = "2006-01-02"

// DefaultLimit is used by Recent when the caller gave no limit
const DefaultLimit = 50

// Kind identifies which filter produced a Plan
type Kind string

const (
	KindRecent Kind = "recent"
	KindDate   Kind = "date"
	KindRange  Kind = "range"
	KindSearch Kind = "search"
)

// Plan is a provider query string plus a result-count bound
type Plan struct {
	Kind       Kind
	Query      string
	MaxResults int
}

// Builder constructs Plans. MaxResults bounds every filter except Recent,
// whose bound is the caller's limit.
type Builder struct {
	MaxResults int
}

// NewBuilder creates a Builder with the given default result bound
func NewBuilder(maxResults int) Builder {
	return Builder{MaxResults: maxResults}
}

// Recent lists the newest messages without a text filter
func (b Builder) Recent(limit int) (Plan, error) {
	if limit <= 0 {
		return Plan{}, email.Validationf("limit must be a positive integer, got %d", limit)
	}
	return Plan{Kind: KindRecent, MaxResults: limit}, nil
}

// ByDate covers one UTC day given as YYYY-MM-DD
func (b Builder) ByDate(date string) (Plan, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Plan{}, err
	}
	return b.Day(day), nil
}

// Day covers the UTC day containing t
func (b Builder) Day(t time.Time) Plan {
	start := truncateDay(t)
	return Plan{
		Kind:       KindDate,
		Query:      between(start, start.AddDate(0, 0, 1)),
		MaxResults: b.MaxResults,
	}
}

// ByRange covers the inclusive day span [from, to]
func (b Builder) ByRange(from, to string) (Plan, error) {
	start, err := ParseDate(from)
	if err != nil {
		return Plan{}, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return Plan{}, err
	}
	if start.After(end) {
		return Plan{}, email.Validationf("from (%s) must not be after to (%s)", from, to)
	}

	return Plan{
		Kind:       KindRange,
		Query:      between(start, end.AddDate(0, 0, 1)),
		MaxResults: b.MaxResults,
	}, nil
}

// Search passes text through as native provider query syntax
func (b Builder) Search(text string) (Plan, error) {
	if strings.TrimSpace(text) == "" {
		return Plan{}, email.Validationf("search query cannot be empty")
	}
	return Plan{Kind: KindSearch, Query: text, MaxResults: b.MaxResults}, nil
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, email.Validationf("invalid date %q: use YYYY-MM-DD", s).
			WithDetail("expected_format", "YYYY-MM-DD")
	}
	return t, nil
}

// between renders a half-open [start, end) interval as epoch-second predicates
func between(start, end time.Time) string {
	return fmt.Sprintf("after:%d before:%d", start.Unix(), end.Unix())
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
