// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET EMPLOYEE QUERY
// Возвращает полное состояние сотрудника: профиль, очки, уровень, KPI,
// бейджи, челленджи, историю оценок и обратной связи.
// ══════════════════════════════════════════════════════════════════════════════

// GetEmployeeQuery содержит параметры запроса сотрудника.
type GetEmployeeQuery struct {
	// EmployeeID - внутренний ID сотрудника.
	EmployeeID string
}

// Validate проверяет корректность параметров запроса.
func (q GetEmployeeQuery) Validate() error {
	if q.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	return nil
}

// EmployeeDTO - DTO состояния сотрудника (Data Transfer Object).
type EmployeeDTO struct {
	// ID - внутренний ID сотрудника.
	ID string `json:"id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// Role - должность.
	Role string `json:"role"`

	// Avatar - эмодзи-аватар.
	Avatar string `json:"avatar"`

	// Points - текущее количество очков.
	Points int `json:"points"`

	// Level - уровень, производный от очков.
	Level int `json:"level"`

	// PointsToNextLevel - сколько очков осталось до следующего уровня.
	PointsToNextLevel int `json:"points_to_next_level"`

	// KPIs - текущие значения индикаторов (0-100).
	KPIs map[string]int `json:"kpis"`

	// Badges - идентификаторы открытых бейджей.
	Badges []string `json:"badges"`

	// Streak - текущая серия ежедневных отметок.
	Streak int `json:"streak"`

	// LastCheckIn - время последней отметки.
	LastCheckIn *time.Time `json:"last_check_in,omitempty"`

	// ChallengeCount - количество назначенных челленджей.
	ChallengeCount int `json:"challenge_count"`

	// CompletedChallenges - количество завершённых челленджей.
	CompletedChallenges int `json:"completed_challenges"`

	// EvaluationCount - количество записанных оценок.
	EvaluationCount int `json:"evaluation_count"`

	// FeedbackCount - количество записей обратной связи.
	FeedbackCount int `json:"feedback_count"`

	// UpdatedAt - время последней мутации состояния.
	UpdatedAt time.Time `json:"updated_at"`
}

// GetEmployeeResult содержит результат запроса.
type GetEmployeeResult struct {
	// Employee - DTO сотрудника.
	Employee EmployeeDTO `json:"employee"`

	// State - полное доменное состояние (для внутренних потребителей).
	State *employee.State `json:"-"`
}

// GetEmployeeHandler обрабатывает запросы на получение сотрудника.
type GetEmployeeHandler struct {
	store employee.Store
}

// NewGetEmployeeHandler создаёт новый обработчик.
func NewGetEmployeeHandler(store employee.Store) *GetEmployeeHandler {
	return &GetEmployeeHandler{store: store}
}

// Handle выполняет запрос.
func (h *GetEmployeeHandler) Handle(ctx context.Context, query GetEmployeeQuery) (*GetEmployeeResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetEmployee", shared.ErrValidation, err.Error(), err)
	}

	state, err := h.store.Get(ctx, query.EmployeeID)
	if err != nil {
		return nil, err
	}

	return &GetEmployeeResult{
		Employee: toEmployeeDTO(state),
		State:    state,
	}, nil
}

// toEmployeeDTO преобразует доменное состояние в DTO.
func toEmployeeDTO(state *employee.State) EmployeeDTO {
	kpis := make(map[string]int, len(state.KPIs))
	for key, value := range state.KPIs {
		kpis[string(key)] = int(value)
	}

	completed := 0
	for _, ch := range state.Challenges {
		if ch.IsCompleted() {
			completed++
		}
	}

	badgeIDs := state.Badges.IDs()
	badges := make([]string, len(badgeIDs))
	for i, id := range badgeIDs {
		badges[i] = string(id)
	}

	nextLevelAt := int(state.Level) * employee.PointsPerLevel

	return EmployeeDTO{
		ID:                  state.ID,
		Name:                state.Profile.Name,
		Role:                state.Profile.Role,
		Avatar:              state.Profile.Avatar,
		Points:              int(state.Points),
		Level:               int(state.Level),
		PointsToNextLevel:   nextLevelAt - int(state.Points),
		KPIs:                kpis,
		Badges:              badges,
		Streak:              state.Streak,
		LastCheckIn:         state.LastCheckIn,
		ChallengeCount:      len(state.Challenges),
		CompletedChallenges: completed,
		EvaluationCount:     len(state.Evaluations),
		FeedbackCount:       len(state.FeedbackEntries),
		UpdatedAt:           state.UpdatedAt,
	}
}
