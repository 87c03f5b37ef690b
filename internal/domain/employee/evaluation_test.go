package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluation_Validation(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewEvaluation(EvaluationType("360"), nil, "", now)
	assert.Error(t, err)

	_, err = NewEvaluation(EvaluationPeer, map[KPIKey]int{KPIKey("bogus"): 3}, "", now)
	assert.Error(t, err)

	_, err = NewEvaluation(EvaluationPeer, map[KPIKey]int{KPICulture: 6}, "", now)
	assert.Error(t, err)

	_, err = NewEvaluation(EvaluationPeer, map[KPIKey]int{KPICulture: 0}, "", now)
	assert.Error(t, err)

	eval, err := NewEvaluation(EvaluationSelf, map[KPIKey]int{KPICulture: 5}, "отлично", now)
	require.NoError(t, err)
	assert.Equal(t, EvaluationSelf, eval.Type)
	assert.Equal(t, "отлично", eval.Comment)
}

func TestEvaluation_ScoreForDefaultsToNeutral(t *testing.T) {
	eval, err := NewEvaluation(EvaluationPeer, map[KPIKey]int{KPIProductivity: 5}, "", time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 5, eval.ScoreFor(KPIProductivity))
	assert.Equal(t, ScoreNeutral, eval.ScoreFor(KPIWellbeing))
}

func TestEvaluation_KPIDelta(t *testing.T) {
	eval, err := NewEvaluation(EvaluationManagerReview, map[KPIKey]int{
		KPIProductivity: 5,
		KPICollaboration: 1,
		KPIAbsenteeism:  5,
	}, "", time.Now().UTC())
	require.NoError(t, err)

	// (score - 3) * 4
	assert.Equal(t, 8, eval.KPIDelta(KPIProductivity))
	assert.Equal(t, -8, eval.KPIDelta(KPICollaboration))

	// Missing key: neutral score, zero delta
	assert.Equal(t, 0, eval.KPIDelta(KPIInnovation))

	// Inverted indicator: high score means low absenteeism, delta flips sign
	assert.Equal(t, -8, eval.KPIDelta(KPIAbsenteeism))
}

func TestEvaluation_CloneIsIndependent(t *testing.T) {
	eval, err := NewEvaluation(EvaluationPeer, map[KPIKey]int{KPICulture: 4}, "", time.Now().UTC())
	require.NoError(t, err)

	clone := eval.Clone()
	clone.Scores[KPICulture] = 1

	assert.Equal(t, 4, eval.Scores[KPICulture])
}
