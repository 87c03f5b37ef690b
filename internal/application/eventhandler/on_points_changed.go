// Package eventhandler содержит обработчики доменных событий.
// Эти обработчики реализуют event-driven архитектуру и связывают
// различные части системы через асинхронные события.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/leaderboard"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON POINTS CHANGED HANDLER
// Поддерживает кеш лидерборда в актуальном состоянии: каждое изменение
// баллов сотрудника отражается в sorted set. Кеш - ускоритель, не источник
// истины, поэтому сбой обновления логируется и не считается ошибкой.
// ═══════════════════════════════════════════════════════════════════════════

// OnPointsChangedHandler обрабатывает событие изменения баллов.
type OnPointsChangedHandler struct {
	cache  leaderboard.Cache
	logger *slog.Logger
}

// NewOnPointsChangedHandler создаёт новый обработчик.
func NewOnPointsChangedHandler(cache leaderboard.Cache, logger *slog.Logger) *OnPointsChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnPointsChangedHandler{
		cache:  cache,
		logger: logger.With("handler", "on_points_changed"),
	}
}

// Handle обрабатывает событие изменения баллов.
// Реализует интерфейс shared.EventHandler.
func (h *OnPointsChangedHandler) Handle(event shared.Event) error {
	pointsEvent, ok := event.(shared.PointsChangedEvent)
	if !ok {
		h.logger.Warn("received non-PointsChangedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	if h.cache == nil {
		return nil
	}

	ctx := context.Background()
	if err := h.cache.UpdateScore(ctx, pointsEvent.EmployeeID, pointsEvent.NewTotal); err != nil {
		h.logger.Warn("failed to update leaderboard cache",
			"employee_id", pointsEvent.EmployeeID,
			"points", pointsEvent.NewTotal,
			"error", err,
		)
		return nil
	}

	h.logger.Debug("leaderboard cache updated",
		"employee_id", pointsEvent.EmployeeID,
		"points", pointsEvent.NewTotal,
		"delta", pointsEvent.Delta,
		"source", pointsEvent.Source,
	)

	return nil
}
