package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/config"
	"github.com/vijay-prabhu/gmail-triage/internal/database"
	"github.com/vijay-prabhu/gmail-triage/internal/email/gmail"
	"github.com/vijay-prabhu/gmail-triage/internal/logger"
	"github.com/vijay-prabhu/gmail-triage/internal/output"
	"github.com/vijay-prabhu/gmail-triage/internal/scoring"
)

// app holds everything a command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *database.DB
	provider *gmail.Provider
	catalog  *catalog.Service
	terminal *output.Terminal
	progress *progressPrinter
}

// loadBase loads configuration, builds the logger and opens the database
func loadBase() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   log,
		db:       db,
		terminal: output.NewTerminal(os.Stdout),
	}, nil
}

// loadApp is loadBase plus an authenticated provider and the catalog.
// Persisted important domains are merged into the configured ones.
func loadApp(ctx context.Context, showProgress bool) (*app, error) {
	a, err := loadBase()
	if err != nil {
		return nil, err
	}

	scorer, err := a.scorer(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.provider = gmail.New(gmail.OptionsFromConfig(a.cfg.Gmail, a.logger))
	if err := a.provider.Authenticate(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	opts := catalog.Options{
		Concurrency:     a.cfg.Gmail.FetchConcurrency,
		MaxResults:      a.cfg.Gmail.MaxResults,
		BulkConcurrency: a.cfg.Bulk.Concurrency,
		Store:           a.db,
	}
	if showProgress {
		a.progress = newProgressPrinter(os.Stderr, output.NewTerminal(os.Stderr))
		opts.Progress = a.progress.report
	}

	a.catalog = catalog.New(a.provider, scorer, a.logger, opts)
	return a, nil
}

// scorer builds the scoring rules from config plus persisted domains
func (a *app) scorer(ctx context.Context) (*scoring.Scorer, error) {
	rules := scoring.FromConfig(a.cfg.Scoring)

	stored, err := a.db.ImportantDomainNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load important domains: %w", err)
	}
	for _, d := range stored {
		rules = rules.WithDomain(d)
	}

	a.logger.Debug("scoring rules loaded",
		zap.Int("important_domains", len(rules.ImportantDomains())),
		zap.Int("persisted_domains", len(stored)))

	return scoring.NewScorer(rules), nil
}

func (a *app) close() {
	a.stopProgress()
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) stopProgress() {
	if a.progress != nil {
		a.progress.stop()
	}
}

// write renders data to stdout in the --output format
func (a *app) write(data interface{}) error {
	a.stopProgress()
	return output.Write(os.Stdout, outputFmt, a.terminal, data)
}

// progressPrinter reports listing and bulk progress on one stderr line.
// Non-terminals only get a line per phase change.
type progressPrinter struct {
	w        io.Writer
	terminal *output.Terminal
	updates  chan catalog.Progress
	done     chan struct{}

	mu      sync.Mutex
	stopped bool
}

func newProgressPrinter(w io.Writer, terminal *output.Terminal) *progressPrinter {
	p := &progressPrinter{
		w:        w,
		terminal: terminal,
		updates:  make(chan catalog.Progress, 64),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *progressPrinter) run() {
	defer close(p.done)

	var lastPhase catalog.ProgressPhase
	for u := range p.updates {
		msg := formatProgress(p.terminal, u)
		if p.terminal.IsTerminal {
			fmt.Fprint(p.w, "\r\033[K"+p.terminal.Color(output.PhaseColor(string(u.Phase)), msg))
			if u.Total > 0 && u.Current == u.Total {
				fmt.Fprint(p.w, "\r\033[K")
			}
		} else if u.Phase != lastPhase {
			fmt.Fprintln(p.w, msg)
		}
		lastPhase = u.Phase
	}
	if p.terminal.IsTerminal {
		fmt.Fprint(p.w, "\r\033[K")
	}
}

// report is the catalog.ProgressCallback. Intermediate updates are dropped
// when the printer falls behind; the completing update never is.
func (p *progressPrinter) report(u catalog.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	if u.Total > 0 && u.Current == u.Total {
		p.updates <- u
		return
	}
	select {
	case p.updates <- u:
	default:
	}
}

// stop drains pending updates, clears the progress line and ends the goroutine.
// Safe to call more than once.
func (p *progressPrinter) stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.updates)
	}
	p.mu.Unlock()
	<-p.done
}

func formatProgress(terminal *output.Terminal, p catalog.Progress) string {
	var eta string
	if d := p.ETA(); d > 0 && d < 24*time.Hour {
		eta = fmt.Sprintf(" (ETA: %s)", output.FormatETA(d))
	}

	switch p.Phase {
	case catalog.PhaseListing:
		return fmt.Sprintf("%s Listing: %d found", terminal.Spinner(), p.Total)
	case catalog.PhaseFetching:
		return fmt.Sprintf("Fetching: %d/%d (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
	case catalog.PhaseBulk:
		return fmt.Sprintf("%s: %d/%d (%d%%)%s", p.Description, p.Current, p.Total, p.Percentage(), eta)
	default:
		return p.Description
	}
}
