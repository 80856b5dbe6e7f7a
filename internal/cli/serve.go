package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/chaitanyauthale5/portfolio/internal/contact"
	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
	"github.com/chaitanyauthale5/portfolio/internal/platform/config"
	"github.com/chaitanyauthale5/portfolio/internal/platform/otel"
	"github.com/chaitanyauthale5/portfolio/internal/platform/timeouts"
	"github.com/chaitanyauthale5/portfolio/internal/reveal"
	"github.com/chaitanyauthale5/portfolio/internal/storage/sqlite"
	"github.com/chaitanyauthale5/portfolio/internal/web"
)

const pruneInterval = 24 * time.Hour

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PORTFOLIO_ADDR)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	portfolio, err := loadPortfolio(cfg.ContentPath)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	shutdownTracing, err := otel.Setup(ctx, "portfolio", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("Error flushing traces: %v", err)
		}
	}()

	sender, err := newSender(cfg, nil)
	if err != nil {
		if !errors.Is(err, emailrelay.ErrNotConfigured) {
			return err
		}
		log.Printf("Warning: %v; contact form submissions will fail", err)
		sender = unconfiguredSender(err)
	}

	if !cfg.AdminEnabled() {
		log.Printf("ADMIN_USERNAME/ADMIN_PASSWORD not set; admin dashboard disabled")
	}

	srv, err := web.New(web.Options{
		Portfolio:        portfolio,
		Contact:          contact.NewService(sender, store),
		Tracker:          reveal.NewMemoryTracker(cfg.RevealViewsCached, store),
		Store:            store,
		StaticDir:        existingPath(cfg.StaticDir),
		ResumePath:       existingPath(cfg.ResumePath),
		AdminUsername:    cfg.AdminUsername,
		AdminPassword:    cfg.AdminPassword,
		VisitorRetention: cfg.VisitorRetention,
		Debug:            cfg.GinMode == gin.DebugMode,
	})
	if err != nil {
		return err
	}

	go pruneLoop(ctx, srv)

	return srv.ListenAndServe(ctx, cfg.Addr)
}

// pruneLoop removes expired visitor records at startup and then daily.
func pruneLoop(ctx context.Context, srv *web.Server) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		srv.PruneVisitors(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// existingPath drops paths that do not exist so optional files are not routed.
func existingPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("Skipping %s: %v", path, err)
		return ""
	}
	return path
}
