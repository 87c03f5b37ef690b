package query

import (
	"context"
	"errors"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REWARD CATALOG QUERY
// Возвращает каталог наград, опционально с признаком доступности
// для конкретного сотрудника (хватает ли очков).
// ══════════════════════════════════════════════════════════════════════════════

// GetRewardCatalogQuery содержит параметры запроса каталога.
type GetRewardCatalogQuery struct {
	// EmployeeID - если указан, награды помечаются признаком доступности.
	EmployeeID string
}

// RewardDTO - DTO награды из каталога.
type RewardDTO struct {
	// ID - идентификатор награды.
	ID string `json:"id"`

	// Name - отображаемое название.
	Name string `json:"name"`

	// Cost - стоимость в очках.
	Cost int `json:"cost"`

	// Category - категория награды.
	Category string `json:"category"`

	// Affordable - хватает ли очков сотруднику (только при EmployeeID).
	Affordable *bool `json:"affordable,omitempty"`
}

// GetRewardCatalogResult содержит результат запроса каталога.
type GetRewardCatalogResult struct {
	// Rewards - награды каталога.
	Rewards []RewardDTO `json:"rewards"`

	// EmployeePoints - текущие очки сотрудника (только при EmployeeID).
	EmployeePoints *int `json:"employee_points,omitempty"`
}

// GetRewardCatalogHandler обрабатывает запросы каталога наград.
type GetRewardCatalogHandler struct {
	store   employee.Store
	catalog []employee.Reward
}

// NewGetRewardCatalogHandler создаёт новый обработчик.
// nil каталог означает каталог по умолчанию.
func NewGetRewardCatalogHandler(store employee.Store, catalog []employee.Reward) *GetRewardCatalogHandler {
	if catalog == nil {
		catalog = employee.DefaultCatalog()
	}
	return &GetRewardCatalogHandler{store: store, catalog: catalog}
}

// Handle выполняет запрос.
func (h *GetRewardCatalogHandler) Handle(ctx context.Context, query GetRewardCatalogQuery) (*GetRewardCatalogResult, error) {
	result := &GetRewardCatalogResult{
		Rewards: make([]RewardDTO, 0, len(h.catalog)),
	}

	var points *int
	if query.EmployeeID != "" {
		state, err := h.store.Get(ctx, query.EmployeeID)
		if err != nil {
			if errors.Is(err, shared.ErrEmployeeNotFound) {
				return nil, err
			}
			return nil, shared.WrapError("query", "GetRewardCatalog", shared.ErrNotFound, "failed to load employee", err)
		}
		p := int(state.Points)
		points = &p
	}

	for _, reward := range h.catalog {
		dto := RewardDTO{
			ID:       reward.ID,
			Name:     reward.Name,
			Cost:     reward.Cost,
			Category: reward.Category,
		}
		if points != nil {
			affordable := reward.CanAfford(employee.Points(*points))
			dto.Affordable = &affordable
		}
		result.Rewards = append(result.Rewards, dto)
	}
	result.EmployeePoints = points

	return result, nil
}
