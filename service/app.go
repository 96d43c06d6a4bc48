package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogsite/app/repositories"
	"blogsite/app/repositories/sqlstore"
	"blogsite/app/routes"
	"blogsite/app/services"
	"blogsite/app/views"
	"blogsite/config"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog HTTP server",
		Long:  `Run the blog HTTP server until SIGINT or SIGTERM, then drain in-flight requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunAppServer(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// RunAppServer opens the configured store and serves the blog until ctx is done.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	handler, err := newRouter(cfg, store, logger, services.SystemClock{})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// newRouter wires services and controllers onto store.
func newRouter(cfg *config.Config, store *repositories.Store, logger *slog.Logger, clock services.Clock) (http.Handler, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, err
	}

	return routes.New(routes.Dependencies{
		Posts:        services.NewPostService(store, clock),
		Comments:     services.NewCommentService(store, clock),
		Auth:         services.NewAuthService(store.Users, cfg.Auth.Secret, cfg.Auth.TokenTTL, clock),
		Templates:    templates,
		Logger:       logger,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.IsProduction(),
		LoginURL:     cfg.Auth.LoginURL,
	}), nil
}

// serve runs srv until it fails or ctx is cancelled, then shuts it down
// within timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting blog server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down blog server", slog.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("blog server stopped")
	return nil
}

// openStore opens the repositories for the configured storage driver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := sqlstore.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return sqlstore.NewStore(db), nil
	case "badger":
		db, err := repositories.OpenBadger(cfg.Storage.BadgerPath, cfg.Storage.InMemory, logger)
		if err != nil {
			return nil, err
		}
		return repositories.NewBadgerStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
