package query

import (
	"context"
	"sort"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST EMPLOYEES QUERY
// Возвращает краткие карточки всех сотрудников для экрана выбора профиля.
// ══════════════════════════════════════════════════════════════════════════════

// EmployeeCardDTO - краткая карточка сотрудника.
type EmployeeCardDTO struct {
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

	// Level - уровень сотрудника.
	Level int `json:"level"`
}

// ListEmployeesResult содержит результат запроса.
type ListEmployeesResult struct {
	// Employees - карточки, отсортированные по имени.
	Employees []EmployeeCardDTO `json:"employees"`

	// TotalCount - общее количество сотрудников.
	TotalCount int `json:"total_count"`
}

// ListEmployeesHandler обрабатывает запросы списка сотрудников.
type ListEmployeesHandler struct {
	store employee.Store
}

// NewListEmployeesHandler создаёт новый обработчик.
func NewListEmployeesHandler(store employee.Store) *ListEmployeesHandler {
	return &ListEmployeesHandler{store: store}
}

// Handle выполняет запрос.
func (h *ListEmployeesHandler) Handle(ctx context.Context) (*ListEmployeesResult, error) {
	states, err := h.store.All(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]EmployeeCardDTO, 0, len(states))
	for _, state := range states {
		cards = append(cards, EmployeeCardDTO{
			ID:     state.ID,
			Name:   state.Profile.Name,
			Role:   state.Profile.Role,
			Avatar: state.Profile.Avatar,
			Points: int(state.Points),
			Level:  int(state.Level),
		})
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Name != cards[j].Name {
			return cards[i].Name < cards[j].Name
		}
		return cards[i].ID < cards[j].ID
	})

	return &ListEmployeesResult{
		Employees:  cards,
		TotalCount: len(cards),
	}, nil
}
