// Package fulfillment drains the withdrawal queue: every withdrawn item is
// handed to a Fulfiller and its row marked completed, or retried until the
// attempt limit is reached.
package fulfillment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/mihailawp-gif/tgqwen/internal/config"
	"github.com/mihailawp-gif/tgqwen/internal/repos/withdrawals"
)

// minStaleAfter bounds how soon a row stuck in processing is picked up again.
const minStaleAfter = time.Minute

// Fulfiller delivers one withdrawn item outside the system.
type Fulfiller interface {
	Fulfill(ctx context.Context, w withdrawals.Withdrawal) error
}

// LogFulfiller only records the hand-over; delivery is done by operators
// reading the log.
type LogFulfiller struct {
	Log *slog.Logger
}

func (f LogFulfiller) Fulfill(_ context.Context, w withdrawals.Withdrawal) error {
	f.Log.Info("withdrawal ready for delivery",
		"withdrawal_id", w.ID,
		"opening_id", w.OpeningID,
		"user_id", w.UserID,
		"reward", w.RewardName,
		"value", w.RewardValue,
		"attempt", w.Attempts+1,
	)

	return nil
}

type Options struct {
	Clock  clockwork.Clock
	Logger *slog.Logger
}

type Worker struct {
	repo      withdrawals.Withdrawals
	fulfiller Fulfiller
	cfg       config.FulfillmentConfig
	clock     clockwork.Clock
	log       *slog.Logger
	sched     gocron.Scheduler
}

func New(repo withdrawals.Withdrawals, f Fulfiller, cfg config.FulfillmentConfig, opts Options) (*Worker, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if cfg.Interval <= 0 || cfg.BatchSize <= 0 || cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("fulfillment config: interval, batch size and max attempts must be positive: %+v", cfg)
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(opts.Clock), gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	w := &Worker{
		repo:      repo,
		fulfiller: f,
		cfg:       cfg,
		clock:     opts.Clock,
		log:       opts.Logger.With("component", "fulfillment"),
		sched:     sched,
	}

	return w, nil
}

// Start schedules RunOnce every interval, first run right away. A run that
// overlaps the next tick makes that tick skip.
func (w *Worker) Start() error {
	_, err := w.sched.NewJob(
		gocron.DurationJob(w.cfg.Interval),
		gocron.NewTask(func(ctx context.Context) {
			_, _, err := w.RunOnce(ctx)
			if err != nil {
				w.log.Error("fulfillment run failed", "error", err)
			}
		}),
		gocron.WithName("fulfill-withdrawals"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule fulfillment: %w", err)
	}

	w.sched.Start()
	w.log.Info("fulfillment worker started", "interval", w.cfg.Interval, "batch", w.cfg.BatchSize)

	return nil
}

// Stop waits for a running batch to finish. ctx bounds the wait.
func (w *Worker) Stop(ctx context.Context) error {
	done := make(chan error, 1)

	go func() {
		done <- w.sched.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stop scheduler: %w", err)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// RunOnce claims one batch and fulfils it. A failed delivery is recorded on
// its row and does not stop the batch.
func (w *Worker) RunOnce(ctx context.Context) (completed, failed int, err error) {
	staleAfter := max(10*w.cfg.Interval, minStaleAfter)

	batch, err := w.repo.ClaimPending(ctx, w.cfg.BatchSize, w.clock.Now().Add(-staleAfter))
	if err != nil {
		return 0, 0, fmt.Errorf("claim withdrawals: %w", err)
	}

	for _, wd := range batch {
		ferr := w.fulfiller.Fulfill(ctx, wd)
		if ferr == nil {
			err = w.repo.MarkCompleted(ctx, wd.ID)
			if err != nil {
				return completed, failed, fmt.Errorf("mark withdrawal %d completed: %w", wd.ID, err)
			}

			completed++

			continue
		}

		status, err := w.repo.MarkFailed(ctx, wd.ID, ferr.Error(), w.cfg.MaxAttempts)
		if err != nil {
			return completed, failed, fmt.Errorf("mark withdrawal %d failed: %w", wd.ID, err)
		}

		failed++

		if status == withdrawals.StatusFailed {
			w.log.Error("withdrawal gave up", "withdrawal_id", wd.ID, "opening_id", wd.OpeningID, "error", ferr)
		} else {
			w.log.Warn("withdrawal will be retried", "withdrawal_id", wd.ID, "attempt", wd.Attempts+1, "error", ferr)
		}
	}

	if len(batch) > 0 {
		w.log.Info("fulfillment batch done", "claimed", len(batch), "completed", completed, "failed", failed)
	}

	return completed, failed, nil
}
