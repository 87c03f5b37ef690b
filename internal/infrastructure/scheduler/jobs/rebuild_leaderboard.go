// Package jobs contains the periodic maintenance jobs of ZV Rewards Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// Кеш лидерборда обновляется инкрементально на каждое PointsChanged, но
// может разойтись с хранилищем (рестарт Redis, пропущенное событие).
// Периодическая полная пересборка устраняет дрейф.
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob rebuilds the leaderboard cache from the store.
type RebuildLeaderboardJob struct {
	store  employee.Store
	cache  leaderboard.Cache
	logger *slog.Logger
}

// NewRebuildLeaderboardJob creates a new RebuildLeaderboardJob.
func NewRebuildLeaderboardJob(store employee.Store, cache leaderboard.Cache, logger *slog.Logger) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildLeaderboardJob{
		store:  store,
		cache:  cache,
		logger: logger.With("job", "rebuild_leaderboard"),
	}
}

// Name implements scheduler.Job.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description implements scheduler.Job.
func (j *RebuildLeaderboardJob) Description() string {
	return "Rebuilds the leaderboard cache from the employee store"
}

// Run implements scheduler.Job.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	states, err := j.store.All(ctx)
	if err != nil {
		return fmt.Errorf("rebuild_leaderboard: failed to load states: %w", err)
	}

	scores := make(map[string]int, len(states))
	for _, state := range states {
		scores[state.ID] = int(state.Points)
	}

	if err := j.cache.Rebuild(ctx, scores); err != nil {
		return fmt.Errorf("rebuild_leaderboard: failed to rebuild cache: %w", err)
	}

	j.logger.Debug("leaderboard cache rebuilt", "employees", len(scores))
	return nil
}
