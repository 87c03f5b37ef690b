package employee

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATION
// Оценка - набор баллов 1..5 по индикаторам, конвертируемый в дельты KPI.
// ══════════════════════════════════════════════════════════════════════════════

// EvaluationType определяет источник оценки.
type EvaluationType string

const (
	// EvaluationSelf - самооценка.
	EvaluationSelf EvaluationType = "self"
	// EvaluationPeer - оценка коллегой.
	EvaluationPeer EvaluationType = "peer"
	// EvaluationManagerReview - оценка руководителем.
	EvaluationManagerReview EvaluationType = "manager_review"
)

// IsValid проверяет, что тип оценки известен.
func (t EvaluationType) IsValid() bool {
	switch t {
	case EvaluationSelf, EvaluationPeer, EvaluationManagerReview:
		return true
	default:
		return false
	}
}

// Score bounds and defaults.
const (
	ScoreMin = 1
	ScoreMax = 5
	// ScoreNeutral - значение по умолчанию для отсутствующего индикатора.
	ScoreNeutral = 3
	// ScoreKPIMultiplier - множитель конвертации балла в дельту KPI.
	ScoreKPIMultiplier = 4
	// EvaluationRewardPoints - фиксированная награда за поданную оценку.
	EvaluationRewardPoints = 30
)

// Evaluation представляет одну поданную оценку.
type Evaluation struct {
	// Type - источник оценки.
	Type EvaluationType

	// Scores - баллы 1..5 по индикаторам. Отсутствующий ключ трактуется как 3.
	Scores map[KPIKey]int

	// Comment - произвольный комментарий.
	Comment string

	// CreatedAt - время подачи.
	CreatedAt time.Time
}

// NewEvaluation создаёт оценку с валидацией.
func NewEvaluation(evalType EvaluationType, scores map[KPIKey]int, comment string, createdAt time.Time) (Evaluation, error) {
	if !evalType.IsValid() {
		return Evaluation{}, fmt.Errorf("unknown evaluation type %q", evalType)
	}
	for key, score := range scores {
		if !key.IsValid() {
			return Evaluation{}, fmt.Errorf("unknown kpi key %q in scores", key)
		}
		if score < ScoreMin || score > ScoreMax {
			return Evaluation{}, fmt.Errorf("score for %s must be in [%d,%d], got %d", key, ScoreMin, ScoreMax, score)
		}
	}

	copied := make(map[KPIKey]int, len(scores))
	for k, v := range scores {
		copied[k] = v
	}

	return Evaluation{
		Type:      evalType,
		Scores:    copied,
		Comment:   comment,
		CreatedAt: createdAt,
	}, nil
}

// ScoreFor возвращает балл для индикатора; отсутствующий ключ - нейтральная тройка.
func (e Evaluation) ScoreFor(key KPIKey) int {
	if score, ok := e.Scores[key]; ok {
		return score
	}
	return ScoreNeutral
}

// KPIDelta конвертирует балл в дельту индикатора: (score-3)*4.
// Для absenteeism шкала инвертирована: высокий балл означает, что абсентеизм
// воспринимается НИЗКИМ, поэтому дельта меняет знак перед применением.
func (e Evaluation) KPIDelta(key KPIKey) int {
	delta := (e.ScoreFor(key) - ScoreNeutral) * ScoreKPIMultiplier
	if key.IsInverted() {
		return -delta
	}
	return delta
}

// Clone создаёт копию оценки.
func (e Evaluation) Clone() Evaluation {
	clone := e
	clone.Scores = make(map[KPIKey]int, len(e.Scores))
	for k, v := range e.Scores {
		clone.Scores[k] = v
	}
	return clone
}
