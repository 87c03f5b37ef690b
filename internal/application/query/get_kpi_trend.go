package query

import (
	"context"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET KPI TREND QUERY
// Возвращает временной ряд значений одного индикатора из истории снапшотов.
// История пишется после каждой мутации KPI и ограничена последними записями.
// ══════════════════════════════════════════════════════════════════════════════

// GetKPITrendQuery содержит параметры запроса тренда.
type GetKPITrendQuery struct {
	// EmployeeID - внутренний ID сотрудника.
	EmployeeID string

	// Key - ключ индикатора (пустая строка = все индикаторы).
	Key string
}

// Validate проверяет корректность параметров запроса.
func (q GetKPITrendQuery) Validate() error {
	if q.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	if q.Key != "" && !employee.KPIKey(q.Key).IsValid() {
		return errors.New("unknown kpi key: " + q.Key)
	}
	return nil
}

// KPITrendPointDTO - одна точка временного ряда.
type KPITrendPointDTO struct {
	// Timestamp - время снапшота.
	Timestamp time.Time `json:"timestamp"`

	// Values - значения индикаторов в этот момент.
	Values map[string]int `json:"values"`
}

// GetKPITrendResult содержит результат запроса тренда.
type GetKPITrendResult struct {
	// EmployeeID - ID сотрудника.
	EmployeeID string `json:"employee_id"`

	// Key - запрошенный ключ (пустой = все).
	Key string `json:"key,omitempty"`

	// Points - точки ряда в хронологическом порядке.
	Points []KPITrendPointDTO `json:"points"`

	// Current - текущие значения индикаторов.
	Current map[string]int `json:"current"`
}

// GetKPITrendHandler обрабатывает запросы тренда KPI.
type GetKPITrendHandler struct {
	store employee.Store
}

// NewGetKPITrendHandler создаёт новый обработчик.
func NewGetKPITrendHandler(store employee.Store) *GetKPITrendHandler {
	return &GetKPITrendHandler{store: store}
}

// Handle выполняет запрос.
func (h *GetKPITrendHandler) Handle(ctx context.Context, query GetKPITrendQuery) (*GetKPITrendResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetKPITrend", shared.ErrValidation, err.Error(), err)
	}

	state, err := h.store.Get(ctx, query.EmployeeID)
	if err != nil {
		return nil, err
	}

	points := make([]KPITrendPointDTO, 0, len(state.KPIHistory))
	for _, snap := range state.KPIHistory {
		points = append(points, KPITrendPointDTO{
			Timestamp: snap.Timestamp,
			Values:    filterValues(snap.Values, query.Key),
		})
	}

	return &GetKPITrendResult{
		EmployeeID: state.ID,
		Key:        query.Key,
		Points:     points,
		Current:    filterValues(state.KPIs, query.Key),
	}, nil
}

// filterValues оставляет только запрошенный ключ (или все при пустом ключе).
func filterValues(values employee.KPISet, key string) map[string]int {
	out := make(map[string]int, len(values))
	for k, v := range values {
		if key != "" && string(k) != key {
			continue
		}
		out[string(k)] = int(v)
	}
	return out
}
