package query

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Строит рейтинг всех сотрудников: очки по убыванию, при равенстве - имя,
// затем ID. Изменение позиции вычисляется относительно предыдущего рейтинга.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Limit - количество записей (по умолчанию 20, максимум 100).
	Limit int

	// IncludeRankChange - включать информацию об изменении позиции.
	IncludeRankChange bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	return nil
}

// LeaderboardEntryDTO - DTO для записи лидерборда.
type LeaderboardEntryDTO struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int `json:"rank"`

	// EmployeeID - внутренний ID сотрудника.
	EmployeeID string `json:"employee_id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// Role - должность.
	Role string `json:"role"`

	// Points - текущее количество очков.
	Points int `json:"points"`

	// Level - уровень сотрудника.
	Level int `json:"level"`

	// Streak - текущая серия отметок.
	Streak int `json:"streak"`

	// BadgeCount - количество бейджей.
	BadgeCount int `json:"badge_count"`

	// RankChange - изменение позиции (+ вверх, - вниз, 0 стабильно).
	RankChange int `json:"rank_change"`

	// RankDirection - направление изменения: "up", "down", "stable", "new".
	RankDirection string `json:"rank_direction"`
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Entries - записи лидерборда.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// TotalCount - общее количество сотрудников в рейтинге.
	TotalCount int `json:"total_count"`

	// AveragePoints - средние очки по рейтингу.
	AveragePoints int `json:"average_points"`

	// MedianPoints - медианные очки.
	MedianPoints int `json:"median_points"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler обрабатывает запросы на получение лидерборда.
// Кеш необязателен: при его отсутствии рейтинг строится напрямую из
// состояний, кеш лишь ускоряет выборку топа при больших объёмах.
type GetLeaderboardHandler struct {
	store employee.Store
	cache leaderboard.Cache

	// previous - последний построенный рейтинг, база для RankChange.
	previous *leaderboard.Ranking
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса лидерборда.
func NewGetLeaderboardHandler(store employee.Store, cache leaderboard.Cache) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{store: store, cache: cache}
}

// Handle выполняет запрос на получение лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, err.Error(), err)
	}

	states, err := h.store.All(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrNotFound, "failed to load states", err)
	}
	if len(states) == 0 {
		return nil, shared.ErrLeaderboardEmpty
	}

	ranking := leaderboard.NewRanking(states)
	if query.IncludeRankChange && h.previous != nil {
		ranking.ApplyPrevious(h.previous)
	}
	h.previous = ranking

	if h.cache != nil {
		h.refreshCache(ctx, states)
	}

	entries := ranking.Top(query.Limit)
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toLeaderboardEntryDTO(entry)
	}

	avg, median := pointsStats(states)

	return &GetLeaderboardResult{
		Entries:       dtos,
		TotalCount:    ranking.Len(),
		AveragePoints: avg,
		MedianPoints:  median,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// refreshCache перестраивает кеш рейтинга. Сбой кеша не критичен и
// не прерывает запрос.
func (h *GetLeaderboardHandler) refreshCache(ctx context.Context, states []*employee.State) {
	scores := make(map[string]int, len(states))
	for _, state := range states {
		scores[state.ID] = int(state.Points)
	}
	_ = h.cache.Rebuild(ctx, scores)
}

// toLeaderboardEntryDTO преобразует доменную запись в DTO.
func toLeaderboardEntryDTO(entry *leaderboard.Entry) LeaderboardEntryDTO {
	direction := string(entry.Direction())
	return LeaderboardEntryDTO{
		Rank:          int(entry.Rank),
		EmployeeID:    entry.EmployeeID,
		Name:          entry.Name,
		Role:          entry.Role,
		Points:        int(entry.Points),
		Level:         int(entry.Level),
		Streak:        entry.Streak,
		BadgeCount:    entry.BadgeCount,
		RankChange:    int(entry.RankChange),
		RankDirection: direction,
	}
}

// pointsStats считает средние и медианные очки.
func pointsStats(states []*employee.State) (avg, median int) {
	if len(states) == 0 {
		return 0, 0
	}
	points := make([]int, len(states))
	total := 0
	for i, state := range states {
		points[i] = int(state.Points)
		total += points[i]
	}
	sort.Ints(points)
	avg = total / len(points)
	if n := len(points); n%2 == 1 {
		median = points[n/2]
	} else {
		median = (points[n/2-1] + points[n/2]) / 2
	}
	return avg, median
}
