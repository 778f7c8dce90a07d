package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gmail-triage/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server on [server] host:port (default 127.0.0.1:8080).

Routes:
  GET    /health                     liveness
  GET    /metrics                    prometheus metrics
  GET    /emails/recent?limit=       newest emails
  GET    /emails/today?min_score=    today's emails
  GET    /emails/by-date/:date       one day
  GET    /emails/range?from=&to=     several days
  POST   /emails/search              {"query", "min_score"}
  POST   /emails/:id/read|unread     toggle read state
  DELETE /emails/:id                 move to trash
  POST   /emails/bulk-delete         {"ids": [...]}
  POST   /emails/bulk-read|unread    {"ids": [...]}
  GET    /scoring/domains            important domains
  POST   /scoring/domains            {"domain"}
  GET    /operations                 bulk history

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides [server] host and port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.Addr()
	if serveAddr != "" {
		addr = serveAddr
	}

	user, _ := a.provider.GetUserEmail(ctx)
	a.logger.Info("serving mailbox",
		zap.String("user", user),
		zap.String("addr", addr),
		zap.Strings("important_domains", a.catalog.ImportantDomains()))

	server := httpapi.New(a.catalog, a.db, a.logger)
	if err := server.Listen(ctx, addr, a.cfg.Server.ShutdownTimeout()); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
