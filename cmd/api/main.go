package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mihailawp-gif/tgqwen/internal/api"
	"github.com/mihailawp-gif/tgqwen/internal/infra/logging"
	"github.com/mihailawp-gif/tgqwen/internal/infra/pgutils"
	pgwithdrawals "github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals/postgres"
	"github.com/mihailawp-gif/tgqwen/internal/services/lootbox"
	"github.com/mihailawp-gif/tgqwen/internal/workers/fulfillment"
	"github.com/mihailawp-gif/tgqwen/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// A missing .env is fine; the environment is used as is.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := readConfig()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	queue := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := queue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	queue.Add(func(context.Context) error {
		slog.Info("Close database")

		return db.Close()
	})

	svc, err := lootbox.New(db, cfg.Economy, lootbox.Options{Logger: slog.Default()})
	if err != nil {
		return fmt.Errorf("init lootbox service: %w", err)
	}

	// --- Workers ---
	worker, err := fulfillment.New(
		pgwithdrawals.New(db),
		fulfillment.LogFulfiller{Log: slog.Default()},
		cfg.Fulfillment,
		fulfillment.Options{Logger: slog.Default()},
	)
	if err != nil {
		return fmt.Errorf("init fulfillment worker: %w", err)
	}

	err = worker.Start()
	if err != nil {
		return fmt.Errorf("start fulfillment worker: %w", err)
	}

	queue.Add(func(c context.Context) error {
		slog.Info("Stop fulfillment worker")

		return worker.Stop(c)
	})

	// --- HTTP server ---
	if cfg.AdminToken == "" {
		slog.Warn("APP_ADMIN_TOKEN is empty, admin routes are disabled")
	}

	srv := api.NewServer(cfg.Port, api.NewRouter(svc, cfg.AdminToken, slog.Default()))

	// Register HTTP server graceful shutdown
	queue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred queue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
