package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/query"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

func (s *Server) registerHandlers() {
	s.handlers["list_recent_emails"] = s.handleListRecent
	s.handlers["list_today_emails"] = s.handleListToday
	s.handlers["list_emails_by_date"] = s.handleListByDate
	s.handlers["list_emails_by_range"] = s.handleListByRange
	s.handlers["search_emails"] = s.handleSearch
	s.handlers["mark_email_read"] = s.handleMarkRead
	s.handlers["mark_email_unread"] = s.handleMarkUnread
	s.handlers["delete_email"] = s.handleDelete
	s.handlers["bulk_delete_emails"] = s.handleBulkDelete
	s.handlers["add_important_domain"] = s.handleAddDomain
}

// decode unmarshals tool arguments; absent arguments leave p untouched
func decode(params json.RawMessage, p interface{}) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, p); err != nil {
		return email.Validationf("invalid parameters: %v", err)
	}
	return nil
}

// minScore converts an optional min_score argument, defaulting to low
func minScore(n *int) (email.Importance, error) {
	if n == nil {
		return email.ImportanceLow, nil
	}
	return email.ParseImportance(*n)
}

type listRecentParams struct {
	Limit *int `json:"limit"`
}

func (s *Server) handleListRecent(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listRecentParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	limit := query.DefaultLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	return s.catalog.ListRecent(ctx, limit)
}

type scoredParams struct {
	MinScore *int `json:"min_score"`
}

func (s *Server) handleListToday(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoredParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	threshold, err := minScore(p.MinScore)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListToday(ctx, threshold)
}

type byDateParams struct {
	Date     string `json:"date"`
	MinScore *int   `json:"min_score"`
}

func (s *Server) handleListByDate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p byDateParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Date == "" {
		return nil, email.Validationf("date is required")
	}
	threshold, err := minScore(p.MinScore)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListByDate(ctx, p.Date, threshold)
}

type byRangeParams struct {
	From     string `json:"from"`
	To       string `json:"to"`
	MinScore *int   `json:"min_score"`
}

func (s *Server) handleListByRange(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p byRangeParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.From == "" || p.To == "" {
		return nil, email.Validationf("from and to are required")
	}
	threshold, err := minScore(p.MinScore)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListByRange(ctx, p.From, p.To, threshold)
}

type searchParams struct {
	Query    string `json:"query"`
	MinScore *int   `json:"min_score"`
}

func (s *Server) handleSearch(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p searchParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, email.Validationf("search query cannot be empty")
	}
	threshold, err := minScore(p.MinScore)
	if err != nil {
		return nil, err
	}
	return s.catalog.Search(ctx, p.Query, threshold)
}

type emailIDParams struct {
	EmailID string `json:"email_id"`
}

type ackResult struct {
	Message string `json:"message"`
	EmailID string `json:"email_id"`
}

func (s *Server) mutate(ctx context.Context, params json.RawMessage, fn func(context.Context, string) error, message string) (interface{}, error) {
	var p emailIDParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := fn(ctx, p.EmailID); err != nil {
		return nil, err
	}
	return ackResult{Message: message, EmailID: p.EmailID}, nil
}

func (s *Server) handleMarkRead(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.mutate(ctx, params, s.catalog.MarkRead, "Email marked as read")
}

func (s *Server) handleMarkUnread(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.mutate(ctx, params, s.catalog.MarkUnread, "Email marked as unread")
}

func (s *Server) handleDelete(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.mutate(ctx, params, s.catalog.Delete, "Email deleted")
}

type bulkDeleteParams struct {
	EmailIDs []string `json:"email_ids"`
}

func (s *Server) handleBulkDelete(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p bulkDeleteParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.EmailIDs == nil {
		return nil, email.Validationf("email_ids is required")
	}
	return s.catalog.BulkDelete(ctx, p.EmailIDs), nil
}

type addDomainParams struct {
	Domain string `json:"domain"`
}

type addDomainResult struct {
	Domain  string   `json:"domain"`
	Added   bool     `json:"added"`
	Domains []string `json:"domains"`
}

func (s *Server) handleAddDomain(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p addDomainParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	added, err := s.catalog.AddImportantDomain(ctx, p.Domain)
	if err != nil {
		return nil, err
	}
	return addDomainResult{
		Domain:  strings.ToLower(strings.TrimSpace(p.Domain)),
		Added:   added,
		Domains: s.catalog.ImportantDomains(),
	}, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case resourceToday:
		return s.getResourceToday(ctx)
	case resourceRecent:
		return s.getResourceRecent(ctx)
	case resourceDomains:
		return s.getResourceDomains(), nil
	default:
		return "", email.Validationf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceToday(ctx context.Context) (string, error) {
	listing, err := s.catalog.ListToday(ctx, email.ImportanceLow)
	if err != nil {
		return "", err
	}

	stats := scoring.GetStats(listing.Emails)
	result := fmt.Sprintf(`Today's Emails
==============
Total: %d (unread: %d)
  - High:   %d
  - Normal: %d
  - Low:    %d
`, stats.Total, stats.Unread, stats.High, stats.Normal, stats.Low)

	if listing.Skipped > 0 {
		result += fmt.Sprintf("  (%d could not be fetched)\n", listing.Skipped)
	}

	for _, level := range []email.Importance{email.ImportanceHigh, email.ImportanceNormal, email.ImportanceLow} {
		var lines []string
		for _, e := range listing.Emails {
			if e.Importance == level {
				lines = append(lines, formatLine(e))
			}
		}
		if len(lines) > 0 {
			result += fmt.Sprintf("\n%s (%d):\n", strings.ToUpper(level.String()), len(lines))
			result += strings.Join(lines, "")
		}
	}

	return result, nil
}

func (s *Server) getResourceRecent(ctx context.Context) (string, error) {
	listing, err := s.catalog.ListRecent(ctx, 10)
	if err != nil {
		return "", err
	}

	result := "Recent Emails (Last 10)\n=======================\n\n"

	if len(listing.Emails) == 0 {
		result += "No emails.\n"
		return result, nil
	}

	for _, e := range listing.Emails {
		result += formatLine(e)
	}
	return result, nil
}

func (s *Server) getResourceDomains() string {
	domains := s.catalog.ImportantDomains()

	result := "Important Domains\n=================\n\n"
	if len(domains) == 0 {
		result += "No important domains configured.\n"
		return result
	}
	for _, d := range domains {
		result += fmt.Sprintf("  - %s\n", d)
	}
	return result
}

func formatLine(e email.Summary) string {
	read := " "
	if !e.IsRead {
		read = "*"
	}
	return fmt.Sprintf("%s [%d] %s | %s | %s | %s\n",
		read, e.Importance, e.ID, e.Date.UTC().Format("2006-01-02 15:04"), e.SenderEmail, e.Subject)
}

var _ Catalog = (*catalog.Service)(nil)
