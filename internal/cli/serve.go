package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventadmin/internal/adapters/auth"
	httpdelivery "eventadmin/internal/delivery/http"
	"eventadmin/internal/delivery/http/controllers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	eventSvc, closeSlot, err := openEventService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlot()

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	jwt := auth.NewJWT(cfg.JWTSecret)
	authSvc, err := newAuthService(cfg, logger, db, jwt)
	if err != nil {
		return err
	}

	router := httpdelivery.NewRouter(
		controllers.NewEventController(logger, eventSvc),
		controllers.NewAuthController(logger, authSvc),
		jwt,
		logger,
		httpdelivery.RouterConfig{AllowedOrigins: cfg.AllowedOrigins, RequestTimeout: cfg.RequestTimeout},
	)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
