package eventhandler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// recordingCache фиксирует последний UpdateScore.
type recordingCache struct {
	employeeID string
	points     int
	err        error
}

func (c *recordingCache) UpdateScore(ctx context.Context, employeeID string, points int) error {
	if c.err != nil {
		return c.err
	}
	c.employeeID = employeeID
	c.points = points
	return nil
}

func (c *recordingCache) Remove(ctx context.Context, employeeID string) error { return nil }

func (c *recordingCache) Top(ctx context.Context, n int) ([]leaderboard.ScoredID, error) {
	return nil, nil
}

func (c *recordingCache) Rank(ctx context.Context, employeeID string) (int, error) { return 0, nil }

func (c *recordingCache) Rebuild(ctx context.Context, scores map[string]int) error { return nil }

func TestOnPointsChanged_UpdatesCache(t *testing.T) {
	cache := &recordingCache{}
	handler := NewOnPointsChangedHandler(cache, nil)

	err := handler.Handle(shared.NewPointsChangedEvent("emp-1", 30, 450, "evaluation"))
	require.NoError(t, err)

	assert.Equal(t, "emp-1", cache.employeeID)
	assert.Equal(t, 450, cache.points)
}

func TestOnPointsChanged_IgnoresOtherEvents(t *testing.T) {
	cache := &recordingCache{}
	handler := NewOnPointsChangedHandler(cache, nil)

	err := handler.Handle(shared.NewCheckedInEvent("emp-1", 1, 10))
	require.NoError(t, err)
	assert.Empty(t, cache.employeeID)
}

func TestOnPointsChanged_CacheFailureIsNotAnError(t *testing.T) {
	cache := &recordingCache{err: errors.New("redis down")}
	handler := NewOnPointsChangedHandler(cache, nil)

	err := handler.Handle(shared.NewPointsChangedEvent("emp-1", 30, 450, "evaluation"))
	require.NoError(t, err)
}

func TestOnPointsChanged_NilCache(t *testing.T) {
	handler := NewOnPointsChangedHandler(nil, nil)

	err := handler.Handle(shared.NewPointsChangedEvent("emp-1", 30, 450, "evaluation"))
	require.NoError(t, err)
}
