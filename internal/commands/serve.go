package commands

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

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/corebank-dev/corebank/internal/api"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with a scheduled interest sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	b, cfg, cleanup, err := openBank(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	// Interest accrual is idempotent, so a periodic sweep is safe even if it
	// overlaps a manual accrue.
	c := cron.New()
	if _, err := c.AddFunc(cfg.Accrual.Schedule, func() {
		n, err := b.AccrueMatured(context.Background())
		if err != nil {
			logger.Error("accrual sweep failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("accrued fixed-term interest", "credited", n)
		}
	}); err != nil {
		return fmt.Errorf("scheduling accrual sweep %q: %w", cfg.Accrual.Schedule, err)
	}
	c.Start()
	defer c.Stop()

	handler := api.NewHandler(b, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
