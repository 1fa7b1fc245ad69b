package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/observability/metrics"
)

// StatsWorker periodically refreshes the tasks-by-status gauge from the
// store so dashboards track the stored task population, not just deltas.
type StatsWorker struct {
	taskRepo domain.TaskRepository
	logger   *slog.Logger
	interval time.Duration

	// statuses seen so far; a status that disappears gets reset to zero
	seen map[string]struct{}
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(taskRepo domain.TaskRepository, logger *slog.Logger, interval time.Duration) *StatsWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		taskRepo: taskRepo,
		logger:   logger,
		interval: interval,
		seen:     map[string]struct{}{},
	}
}

// Start begins the refresh loop. It runs until the context is cancelled.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("stats worker started", slog.Duration("interval", w.interval))

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	counts, err := w.taskRepo.CountByStatus(ctx)
	if err != nil {
		w.logger.Error("failed to count tasks", slog.String("error", err.Error()))
		return
	}

	for status := range w.seen {
		if _, ok := counts[status]; !ok {
			metrics.SetTasksByStatus(status, 0)
		}
	}

	for status, count := range counts {
		metrics.SetTasksByStatus(status, count)
		w.seen[status] = struct{}{}
	}
}
