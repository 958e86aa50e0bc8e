package services

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// Worker drives time-based session transitions: pool activation, closing and
// expiring open sessions, and adjudicating complete ones.
type Worker struct {
	pool          SessionPoolService
	sessions      SessionService
	adjudications AdjudicationService
	interval      time.Duration
	now           func() time.Time
}

// NewWorker creates a worker that ticks every interval
func NewWorker(pool SessionPoolService, sessions SessionService, adjudications AdjudicationService, interval time.Duration) *Worker {
	return &Worker{
		pool:          pool,
		sessions:      sessions,
		adjudications: adjudications,
		interval:      interval,
		now:           time.Now,
	}
}

// Run ticks until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	slog.Info("Worker started", "interval", w.interval.String())
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one pass. Errors are logged and the pass continues with the next stage.
func (w *Worker) Tick(ctx context.Context) {
	if created, err := w.pool.ActivateScheduled(ctx, w.now().UTC()); err != nil {
		slog.Error("Worker: pool activation failed", "error", err)
	} else if len(created) > 0 {
		slog.Info("Worker: activated scheduled sessions", "count", len(created))
	}

	if err := w.sessions.ProcessOpenSessions(ctx); err != nil {
		slog.Error("Worker: processing open sessions failed", "error", err)
	}

	if err := w.adjudications.ProcessCompletedSessions(ctx); err != nil {
		slog.Error("Worker: adjudicating complete sessions failed", "error", err)
	}
}
