package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChallenge(t *testing.T) {
	ch, err := NewChallenge("ch-1", "Шесть ревью", "", KPICollaboration, 120, 6)
	require.NoError(t, err)

	assert.Equal(t, "ch-1", ch.ID)
	assert.Equal(t, 0, ch.Progress)
	assert.Equal(t, ChallengeStatusPending, ch.Status)
	assert.False(t, ch.IsCompleted())
}

func TestNewChallenge_Validation(t *testing.T) {
	_, err := NewChallenge("", "t", "", KPICulture, 10, 3)
	assert.ErrorIs(t, err, ErrInvalidChallengeID)

	_, err = NewChallenge("ch-1", "t", "", KPIKey("bogus"), 10, 3)
	assert.Error(t, err)

	_, err = NewChallenge("ch-1", "t", "", KPICulture, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidChallengeTarget)

	_, err = NewChallenge("ch-1", "t", "", KPICulture, -10, 3)
	assert.ErrorIs(t, err, ErrInvalidChallengeReward)
}

func TestChallenge_Advance(t *testing.T) {
	ch, err := NewChallenge("ch-1", "t", "", KPIProductivity, 100, 3)
	require.NoError(t, err)

	assert.False(t, ch.Advance())
	assert.Equal(t, 1, ch.Progress)
	assert.Equal(t, ChallengeStatusInProgress, ch.Status)

	assert.False(t, ch.Advance())
	assert.True(t, ch.Advance())
	assert.Equal(t, 3, ch.Progress)
	assert.Equal(t, ChallengeStatusCompleted, ch.Status)
}

func TestChallenge_AdvanceAfterCompletionIsNoOp(t *testing.T) {
	ch, err := NewChallenge("ch-1", "t", "", KPIProductivity, 100, 1)
	require.NoError(t, err)

	assert.True(t, ch.Advance())
	assert.False(t, ch.Advance())
	assert.Equal(t, 1, ch.Progress)
	assert.Equal(t, ChallengeStatusCompleted, ch.Status)
}

func TestChallenge_CompletionKPIDelta(t *testing.T) {
	regular, _ := NewChallenge("ch-1", "t", "", KPIWellbeing, 10, 1)
	assert.Equal(t, 5, regular.CompletionKPIDelta())

	inverted, _ := NewChallenge("ch-2", "t", "", KPIAbsenteeism, 10, 1)
	assert.Equal(t, -5, inverted.CompletionKPIDelta())
}

func TestChallenge_Validate(t *testing.T) {
	ch, err := NewChallenge("ch-1", "t", "", KPICulture, 10, 3)
	require.NoError(t, err)
	assert.NoError(t, ch.Validate())

	broken := ch
	broken.Progress = 5
	assert.ErrorIs(t, broken.Validate(), ErrProgressOutOfRange)

	broken = ch
	broken.Status = ChallengeStatusCompleted
	assert.ErrorIs(t, broken.Validate(), ErrStatusProgressMismatch)
}
