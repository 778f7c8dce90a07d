// Package httpapi exposes the email catalog over REST.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gmail-triage/internal/catalog"
	"github.com/vijay-prabhu/gmail-triage/internal/database"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// Catalog is the set of operations served over HTTP
type Catalog interface {
	ListRecent(ctx context.Context, limit int) (*catalog.Listing, error)
	ListToday(ctx context.Context, minScore email.Importance) (*catalog.Listing, error)
	ListByDate(ctx context.Context, date string, minScore email.Importance) (*catalog.Listing, error)
	ListByRange(ctx context.Context, from, to string, minScore email.Importance) (*catalog.Listing, error)
	Search(ctx context.Context, text string, minScore email.Importance) (*catalog.Listing, error)

	MarkRead(ctx context.Context, id string) error
	MarkUnread(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	BulkDelete(ctx context.Context, ids []string) email.BulkResult
	BulkMarkRead(ctx context.Context, ids []string) email.BulkResult
	BulkMarkUnread(ctx context.Context, ids []string) email.BulkResult

	AddImportantDomain(ctx context.Context, domain string) (bool, error)
	ImportantDomains() []string
}

// History lists recorded bulk operations
type History interface {
	ListBulkOperations(ctx context.Context, opts database.HistoryOptions) ([]database.BulkOperation, error)
}

// Server is the REST front end
type Server struct {
	app     *fiber.App
	catalog Catalog
	history History
	logger  *zap.Logger
}

// New creates a server. history may be nil, in which case /operations
// returns an empty list.
func New(cat Catalog, history History, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		catalog: cat,
		history: history,
		logger:  logger.Named("http"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "gmailtriage",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
	})

	s.app.Use(s.requestLogger())
	s.app.Use(recover.New())

	s.routes()
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	emails := s.app.Group("/emails")
	emails.Get("/recent", s.listRecent)
	emails.Get("/today", s.listToday)
	emails.Get("/by-date/:date", s.listByDate)
	emails.Get("/range", s.listByRange)
	emails.Post("/search", s.search)
	emails.Post("/bulk-delete", s.bulkDelete)
	emails.Post("/bulk-read", s.bulkMarkRead)
	emails.Post("/bulk-unread", s.bulkMarkUnread)
	emails.Post("/:id/read", s.markRead)
	emails.Post("/:id/unread", s.markUnread)
	emails.Delete("/:id", s.deleteEmail)

	scoring := s.app.Group("/scoring")
	scoring.Get("/domains", s.listDomains)
	scoring.Post("/domains", s.addDomain)

	s.app.Get("/operations", s.listOperations)
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout
func (s *Server) Listen(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is Listen over an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}
