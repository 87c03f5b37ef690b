package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

func TestAdvanceChallenge_ProgressWithoutCompletion(t *testing.T) {
	store, empID, chID := newTestStore(t, 0)
	pub := &capturePublisher{}
	handler := NewAdvanceChallengeHandler(store, pub)

	result, err := handler.Handle(context.Background(), AdvanceChallengeCommand{
		EmployeeID: empID, ChallengeID: chID,
	})
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.False(t, result.NoOp)
	assert.Equal(t, employee.Points(0), result.State.Points)
	assert.Equal(t, 1, result.State.Challenges[0].Progress)
	assert.True(t, pub.Has(shared.EventProgressRecorded))
	assert.False(t, pub.Has(shared.EventPointsChanged))
}

func TestAdvanceChallenge_CompletionCascade(t *testing.T) {
	store, empID, chID := newTestStore(t, 420)
	pub := &capturePublisher{}
	handler := NewAdvanceChallengeHandler(store, pub)

	ctx := context.Background()
	_, err := handler.Handle(ctx, AdvanceChallengeCommand{EmployeeID: empID, ChallengeID: chID})
	require.NoError(t, err)

	result, err := handler.Handle(ctx, AdvanceChallengeCommand{EmployeeID: empID, ChallengeID: chID})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.True(t, result.LeveledUp) // 420 + 120 = 540 crosses 500
	assert.Equal(t, employee.Points(540), result.State.Points)
	assert.Equal(t, employee.Level(2), result.State.Level)

	// KPI delta +5 on the challenge key, culture bump +2
	assert.Equal(t, employee.KPIValue(55), result.State.KPIs[employee.KPICollaboration])
	assert.Equal(t, employee.KPIValue(52), result.State.KPIs[employee.KPICulture])

	// Completion pushes a KPI history snapshot
	assert.Len(t, result.State.KPIHistory, 1)

	assert.True(t, pub.Has(shared.EventPointsChanged))
	assert.True(t, pub.Has(shared.EventLevelUp))
	assert.True(t, pub.Has(shared.EventChallengeCompleted))
	assert.False(t, pub.Has(shared.EventBadgeUnlocked)) // not an innovation challenge
}

func TestAdvanceChallenge_InnovationUnlocksBadge(t *testing.T) {
	challenge, err := employee.NewChallenge("ch-inn", "Идея месяца", "", employee.KPIInnovation, 50, 1)
	require.NoError(t, err)
	state, err := employee.NewState(employee.NewStateParams{
		ID:         "emp-1",
		Profile:    employee.Profile{Name: "Анна"},
		Challenges: []employee.Challenge{challenge},
	})
	require.NoError(t, err)

	pub := &capturePublisher{}
	handler := NewAdvanceChallengeHandler(newSingleStateStore(state), pub)

	result, err := handler.Handle(context.Background(), AdvanceChallengeCommand{
		EmployeeID: "emp-1", ChallengeID: "ch-inn",
	})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.True(t, result.State.Badges.Has(employee.BadgeInnovator))
	assert.True(t, pub.Has(shared.EventBadgeUnlocked))
}

func TestAdvanceChallenge_CompletedIsIdempotentNoOp(t *testing.T) {
	store, empID, chID := newTestStore(t, 0)
	handler := NewAdvanceChallengeHandler(store, nil)

	ctx := context.Background()
	cmd := AdvanceChallengeCommand{EmployeeID: empID, ChallengeID: chID}
	_, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	completion, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, completion.Completed)

	result, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, result.NoOp)
	assert.False(t, result.Completed)
	// No double rewards
	assert.Equal(t, completion.State.Points, result.State.Points)
	assert.Equal(t, completion.State.KPIs, result.State.KPIs)
}

func TestAdvanceChallenge_UnknownIDs(t *testing.T) {
	store, empID, _ := newTestStore(t, 0)
	handler := NewAdvanceChallengeHandler(store, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AdvanceChallengeCommand{EmployeeID: empID, ChallengeID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrChallengeNotFound)

	_, err = handler.Handle(ctx, AdvanceChallengeCommand{EmployeeID: "ghost", ChallengeID: "ch-1"})
	assert.True(t, shared.IsNotFound(err))

	_, err = handler.Handle(ctx, AdvanceChallengeCommand{})
	assert.True(t, shared.IsValidation(err))
}
