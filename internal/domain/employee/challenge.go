package employee

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE
// Челлендж - это измеримая цель сотрудника, привязанная к одному индикатору.
// Прогресс растёт шагами по 1; достижение цели замораживает челлендж навсегда.
// ══════════════════════════════════════════════════════════════════════════════

// ChallengeStatus определяет текущий статус челленджа.
type ChallengeStatus string

const (
	// ChallengeStatusPending - прогресс ещё не начат.
	ChallengeStatusPending ChallengeStatus = "pending"
	// ChallengeStatusInProgress - прогресс начат, но цель не достигнута.
	ChallengeStatusInProgress ChallengeStatus = "in_progress"
	// ChallengeStatusCompleted - цель достигнута; терминальное состояние.
	ChallengeStatusCompleted ChallengeStatus = "completed"
)

// IsValid проверяет, что статус корректен.
func (s ChallengeStatus) IsValid() bool {
	switch s {
	case ChallengeStatusPending, ChallengeStatusInProgress, ChallengeStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true для завершённого челленджа.
func (s ChallengeStatus) IsTerminal() bool {
	return s == ChallengeStatusCompleted
}

// Challenge представляет один челлендж сотрудника.
// Инварианты: progress <= target; status == completed <=> progress >= target.
type Challenge struct {
	// ID - уникальный идентификатор челленджа.
	ID string

	// Title - название.
	Title string

	// Description - описание.
	Description string

	// KPIKey - индикатор, к которому привязан челлендж.
	KPIKey KPIKey

	// RewardPoints - баллы за завершение (>= 0).
	RewardPoints int

	// Progress - текущий прогресс (0..Target).
	Progress int

	// Target - цель (>= 1).
	Target int

	// Status - текущий статус.
	Status ChallengeStatus
}

// Challenge validation errors.
var (
	ErrInvalidChallengeID     = errors.New("challenge id is required")
	ErrInvalidChallengeTarget = errors.New("challenge target must be at least 1")
	ErrInvalidChallengeReward = errors.New("challenge reward points must be non-negative")
	ErrProgressOutOfRange     = errors.New("challenge progress must be within [0, target]")
	ErrStatusProgressMismatch = errors.New("challenge status does not match progress")
)

// NewChallenge создаёт челлендж с валидацией.
func NewChallenge(id, title, description string, kpiKey KPIKey, rewardPoints, target int) (Challenge, error) {
	c := Challenge{
		ID:           id,
		Title:        title,
		Description:  description,
		KPIKey:       kpiKey,
		RewardPoints: rewardPoints,
		Progress:     0,
		Target:       target,
		Status:       ChallengeStatusPending,
	}
	if err := c.Validate(); err != nil {
		return Challenge{}, err
	}
	return c, nil
}

// Validate проверяет инварианты челленджа.
func (c Challenge) Validate() error {
	if c.ID == "" {
		return ErrInvalidChallengeID
	}
	if !c.KPIKey.IsValid() {
		return fmt.Errorf("challenge %s: unknown kpi key %q", c.ID, c.KPIKey)
	}
	if c.Target < 1 {
		return ErrInvalidChallengeTarget
	}
	if c.RewardPoints < 0 {
		return ErrInvalidChallengeReward
	}
	if c.Progress < 0 || c.Progress > c.Target {
		return ErrProgressOutOfRange
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("challenge %s: unknown status %q", c.ID, c.Status)
	}
	if (c.Status == ChallengeStatusCompleted) != (c.Progress >= c.Target) {
		return ErrStatusProgressMismatch
	}
	return nil
}

// IsCompleted возвращает true для завершённого челленджа.
func (c Challenge) IsCompleted() bool {
	return c.Status.IsTerminal()
}

// Advance увеличивает прогресс на 1 (с потолком Target) и обновляет статус.
// Возвращает true, если этот шаг завершил челлендж.
// Для уже завершённого челленджа - no-op (идемпотентное терминальное состояние).
func (c *Challenge) Advance() (completed bool) {
	if c.IsCompleted() {
		return false
	}

	c.Progress++
	if c.Progress > c.Target {
		c.Progress = c.Target
	}

	if c.Progress >= c.Target {
		c.Status = ChallengeStatusCompleted
		return true
	}

	c.Status = ChallengeStatusInProgress
	return false
}

// CompletionKPIDelta возвращает дельту индикатора при завершении.
// Для absenteeism дельта инвертирована: желательное направление - вниз.
func (c Challenge) CompletionKPIDelta() int {
	if c.KPIKey.IsInverted() {
		return -5
	}
	return 5
}

// String возвращает строковое представление для логирования.
func (c Challenge) String() string {
	return fmt.Sprintf(
		"Challenge{ID: %s, KPI: %s, Progress: %d/%d, Status: %s}",
		c.ID, c.KPIKey, c.Progress, c.Target, c.Status,
	)
}
