// Package catalog runs the fetch, parse and score pipeline behind every
// listing and owns the single-item and bulk mutations.
package catalog

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/metrics"
	"github.com/vijay-prabhu/gmail-triage/internal/query"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

// Store persists runtime scoring changes and bulk history. Message content
// is never stored.
type Store interface {
	SaveImportantDomain(ctx context.Context, domain string) error
	RecordBulkOperation(ctx context.Context, result email.BulkResult) error
}

// Options configures a Service
type Options struct {
	// Concurrency bounds the per-message fetches of one listing
	Concurrency int
	// MaxResults bounds date, range and search listings
	MaxResults int
	// BulkConcurrency bounds bulk mutations; 1 processes ids sequentially
	BulkConcurrency int

	Now      func() time.Time
	Store    Store
	Progress ProgressCallback
}

// Listing is the result of one listing operation. Skipped counts messages
// that were listed but could not be fetched; they are omitted from Emails.
type Listing struct {
	Emails  []email.Summary `json:"emails"`
	Count   int             `json:"count"`
	Skipped int             `json:"skipped"`
	Query   string          `json:"query"`
}

// Service is the email catalog
type Service struct {
	mailbox     email.Mailbox
	scorer      *scoring.Scorer
	parser      *email.Parser
	builder     query.Builder
	coordinator *Coordinator
	store       Store
	logger      *zap.Logger
	opts        Options
}

// New creates a catalog over an authenticated mailbox
func New(mailbox email.Mailbox, scorer *scoring.Scorer, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 100
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger = logger.Named("catalog")

	return &Service{
		mailbox:     mailbox,
		scorer:      scorer,
		parser:      email.NewParser(scorer, opts.Now),
		builder:     query.NewBuilder(opts.MaxResults),
		coordinator: NewCoordinator(opts.BulkConcurrency, opts.Store, logger, opts.Progress),
		store:       opts.Store,
		logger:      logger,
		opts:        opts,
	}
}

// Scorer returns the importance scorer shared by all listings
func (s *Service) Scorer() *scoring.Scorer {
	return s.scorer
}

// ListRecent returns the newest limit messages in provider order
func (s *Service) ListRecent(ctx context.Context, limit int) (*Listing, error) {
	plan, err := s.builder.Recent(limit)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, plan, email.ImportanceLow)
}

// ListToday returns messages delivered on the current UTC day
func (s *Service) ListToday(ctx context.Context, minScore email.Importance) (*Listing, error) {
	return s.List(ctx, s.builder.Day(s.opts.Now().UTC()), minScore)
}

// ListByDate returns messages delivered on one UTC day (YYYY-MM-DD)
func (s *Service) ListByDate(ctx context.Context, date string, minScore email.Importance) (*Listing, error) {
	plan, err := s.builder.ByDate(date)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, plan, minScore)
}

// ListByRange returns messages delivered between two days, both inclusive
func (s *Service) ListByRange(ctx context.Context, from, to string, minScore email.Importance) (*Listing, error) {
	plan, err := s.builder.ByRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, plan, minScore)
}

// Search passes text to the provider's native query syntax
func (s *Service) Search(ctx context.Context, text string, minScore email.Importance) (*Listing, error) {
	plan, err := s.builder.Search(text)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, plan, minScore)
}

// List runs one query: list ids, fetch and parse each message, then keep
// summaries scoring at least minScore. Messages that fail to fetch are
// dropped and counted in Skipped; a failed id listing fails the call.
func (s *Service) List(ctx context.Context, plan query.Plan, minScore email.Importance) (*Listing, error) {
	if !minScore.Valid() {
		return nil, email.Validationf("min_score must be between 1 and 3, got %d", minScore)
	}

	ids, err := s.mailbox.ListMessageIDs(ctx, plan.Query, plan.MaxResults)
	if err != nil {
		return nil, err
	}
	s.opts.Progress.report(PhaseListing, len(ids), len(ids), time.Time{}, "Listed messages")

	summaries, skipped := s.fetch(ctx, ids)
	if err := ctx.Err(); err != nil {
		return nil, email.ProviderFailure("list", err)
	}

	filtered := scoring.AtLeast(summaries, minScore)

	s.logger.Debug("listing complete",
		zap.String("kind", string(plan.Kind)),
		zap.String("query", plan.Query),
		zap.Int("listed", len(ids)),
		zap.Int("skipped", skipped),
		zap.Int("returned", len(filtered)))

	return &Listing{
		Emails:  filtered,
		Count:   len(filtered),
		Skipped: skipped,
		Query:   plan.Query,
	}, nil
}

// fetch retrieves and parses ids with bounded concurrency, preserving the
// listing order
func (s *Service) fetch(ctx context.Context, ids []string) ([]email.Summary, int) {
	results := make([]*email.Summary, len(ids))
	started := time.Now()
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			defer func() {
				n := int(done.Add(1))
				s.opts.Progress.report(PhaseFetching, n, len(ids), started, "Fetching messages")
			}()

			raw, err := s.mailbox.GetMessage(ctx, id)
			if err != nil {
				s.logger.Warn("dropping message from listing",
					zap.String("id", id),
					zap.Error(err))
				return nil
			}

			summary := s.parser.Parse(raw)
			metrics.RecordScore(int(summary.Importance))
			results[i] = &summary
			return nil
		})
	}
	_ = g.Wait()

	summaries := make([]email.Summary, 0, len(ids))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	skipped := len(ids) - len(summaries)
	metrics.RecordFetch(len(summaries), skipped)

	return summaries, skipped
}

// Explanation pairs one message with the rule that decided its score
type Explanation struct {
	Email  email.Summary  `json:"email"`
	Result scoring.Result `json:"result"`
}

// Explain fetches a single message and reports why it scored as it did
func (s *Service) Explain(ctx context.Context, id string) (*Explanation, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	raw, err := s.mailbox.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := s.parser.Parse(raw)
	return &Explanation{
		Email:  summary,
		Result: s.scorer.Explain(summary.SenderEmail, summary.Subject, summary.Labels),
	}, nil
}

// MarkRead removes the unread label; marking a read message is not an error
func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mailbox.ModifyLabels(ctx, id, nil, []string{email.LabelUnread})
}

// MarkUnread adds the unread label; marking an unread message is not an error
func (s *Service) MarkUnread(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mailbox.ModifyLabels(ctx, id, []string{email.LabelUnread}, nil)
}

// Delete moves a message to the provider's trash
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.mailbox.Trash(ctx, id)
}

// BulkDelete trashes every id, counting failures instead of stopping
func (s *Service) BulkDelete(ctx context.Context, ids []string) email.BulkResult {
	return s.coordinator.Run(ctx, ActionDelete, ids, s.Delete)
}

// BulkMarkRead marks every id read, counting failures instead of stopping
func (s *Service) BulkMarkRead(ctx context.Context, ids []string) email.BulkResult {
	return s.coordinator.Run(ctx, ActionMarkRead, ids, s.MarkRead)
}

// BulkMarkUnread marks every id unread, counting failures instead of stopping
func (s *Service) BulkMarkUnread(ctx context.Context, ids []string) email.BulkResult {
	return s.coordinator.Run(ctx, ActionMarkUnread, ids, s.MarkUnread)
}

// AddImportantDomain extends the important domain set. The domain is
// persisted before the scorer sees it. added is false when it was already
// present.
func (s *Service) AddImportantDomain(ctx context.Context, domain string) (bool, error) {
	d, ok := scoring.ValidateDomain(domain)
	if !ok {
		return false, email.Validationf("invalid domain: %q", domain).
			WithDetail("expected_format", "example.com")
	}

	if s.scorer.Rules().HasDomain(d) {
		return false, nil
	}

	if s.store != nil {
		if err := s.store.SaveImportantDomain(ctx, d); err != nil {
			return false, err
		}
	}

	added := s.scorer.AddImportantDomain(d)
	if added {
		s.logger.Info("important domain added", zap.String("domain", d))
	}
	return added, nil
}

// ImportantDomains returns the current important domains, sorted
func (s *Service) ImportantDomains() []string {
	return s.scorer.Rules().ImportantDomains()
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return email.Validationf("email id is required")
	}
	return nil
}
