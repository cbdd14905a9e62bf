package leaguequeue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/riverqueue/river"
)

// Saver writes a league snapshot to durable storage.
type Saver interface {
	Save(ctx context.Context, leagues []leaguetypes.League) error
}

// LeagueSaveWorker applies queued snapshots in sequence order.
type LeagueSaveWorker struct {
	river.WorkerDefaults[LeagueSaveJob]

	saver  Saver
	logger *slog.Logger

	mu      sync.Mutex
	applied int64
}

func NewLeagueSaveWorker(logger *slog.Logger, saver Saver) *LeagueSaveWorker {
	return &LeagueSaveWorker{saver: saver, logger: logger}
}

// Work saves the snapshot unless a newer one has already been written.
// Returning an error lets River retry with backoff.
func (w *LeagueSaveWorker) Work(ctx context.Context, job *river.Job[LeagueSaveJob]) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	logger := w.logger.With(
		slog.Int64("job_id", job.ID),
		slog.Int64("sequence", job.Args.Sequence),
		slog.Int("attempt", job.Attempt),
	)

	if job.Args.Sequence != 0 && job.Args.Sequence <= w.applied {
		logger.Info("Skipping stale league snapshot", slog.Int64("applied", w.applied))
		return nil
	}

	if err := w.saver.Save(ctx, job.Args.Leagues); err != nil {
		logger.Error("Failed to save league snapshot", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save league snapshot: %w", err)
	}

	w.applied = job.Args.Sequence
	logger.Info("League snapshot saved", slog.Int("league_count", len(job.Args.Leagues)))
	return nil
}
