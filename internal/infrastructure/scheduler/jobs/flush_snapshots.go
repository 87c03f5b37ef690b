package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
)

// ══════════════════════════════════════════════════════════════════════════════
// FLUSH SNAPSHOTS JOB
// Write-behind запись - best-effort: при сбое она логируется и теряется.
// Этот джоб периодически сохраняет все состояния целиком, закрывая дыры
// от пропущенных записей.
// ══════════════════════════════════════════════════════════════════════════════

// FlushSnapshotsJob persists every in-memory state to the snapshot repository.
type FlushSnapshotsJob struct {
	store     employee.Store
	snapshots employee.SnapshotRepository
	logger    *slog.Logger
}

// NewFlushSnapshotsJob creates a new FlushSnapshotsJob.
func NewFlushSnapshotsJob(store employee.Store, snapshots employee.SnapshotRepository, logger *slog.Logger) *FlushSnapshotsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlushSnapshotsJob{
		store:     store,
		snapshots: snapshots,
		logger:    logger.With("job", "flush_snapshots"),
	}
}

// Name implements scheduler.Job.
func (j *FlushSnapshotsJob) Name() string {
	return "flush_snapshots"
}

// Description implements scheduler.Job.
func (j *FlushSnapshotsJob) Description() string {
	return "Persists all in-memory employee states to the snapshot repository"
}

// Run implements scheduler.Job.
func (j *FlushSnapshotsJob) Run(ctx context.Context) error {
	states, err := j.store.All(ctx)
	if err != nil {
		return fmt.Errorf("flush_snapshots: failed to load states: %w", err)
	}

	var failed int
	for _, state := range states {
		if err := j.snapshots.Save(ctx, state.ID, state); err != nil {
			failed++
			j.logger.Warn("failed to flush snapshot", "employee_id", state.ID, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("flush_snapshots: %d of %d saves failed", failed, len(states))
	}
	j.logger.Debug("snapshots flushed", "employees", len(states))
	return nil
}
