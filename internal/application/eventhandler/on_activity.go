// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"log/slog"
	"sync"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ACTIVITY FEED HANDLER
// Подписывается на все события и ведёт ленту последних уведомлений.
// Лента отдаётся интерфейсному слою как "центр уведомлений" сотрудника.
// ═══════════════════════════════════════════════════════════════════════════

// DefaultFeedCapacity - сколько последних уведомлений хранится в ленте.
const DefaultFeedCapacity = 50

// FeedItem - одно уведомление ленты.
type FeedItem struct {
	// EventType - тип события.
	EventType string `json:"event_type"`

	// EmployeeID - ID сотрудника, к которому относится событие.
	EmployeeID string `json:"employee_id"`

	// Payload - данные события.
	Payload map[string]interface{} `json:"payload"`

	// OccurredAt - время события (RFC 3339).
	OccurredAt string `json:"occurred_at"`
}

// ActivityFeedHandler накапливает последние события в кольцевом буфере.
type ActivityFeedHandler struct {
	mu       sync.RWMutex
	items    []FeedItem
	capacity int
	logger   *slog.Logger
}

// NewActivityFeedHandler создаёт новый обработчик ленты.
func NewActivityFeedHandler(capacity int, logger *slog.Logger) *ActivityFeedHandler {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityFeedHandler{
		items:    make([]FeedItem, 0, capacity),
		capacity: capacity,
		logger:   logger.With("handler", "activity_feed"),
	}
}

// Handle добавляет событие в ленту.
// Реализует интерфейс shared.EventHandler.
func (h *ActivityFeedHandler) Handle(event shared.Event) error {
	item := FeedItem{
		EventType:  string(event.EventType()),
		EmployeeID: event.AggregateID(),
		Payload:    event.Payload(),
		OccurredAt: event.OccurredAt().Format("2006-01-02T15:04:05Z07:00"),
	}

	h.mu.Lock()
	h.items = append(h.items, item)
	if len(h.items) > h.capacity {
		h.items = h.items[len(h.items)-h.capacity:]
	}
	h.mu.Unlock()

	h.logger.Debug("activity recorded",
		"event_type", item.EventType,
		"employee_id", item.EmployeeID,
	)

	return nil
}

// Recent возвращает последние n уведомлений, новые первыми.
// n <= 0 означает всю ленту.
func (h *ActivityFeedHandler) Recent(n int) []FeedItem {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.items) {
		n = len(h.items)
	}
	out := make([]FeedItem, 0, n)
	for i := len(h.items) - 1; i >= len(h.items)-n; i-- {
		out = append(out, h.items[i])
	}
	return out
}

// RecentFor возвращает последние n уведомлений конкретного сотрудника.
func (h *ActivityFeedHandler) RecentFor(employeeID string, n int) []FeedItem {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 {
		n = h.capacity
	}
	out := make([]FeedItem, 0, n)
	for i := len(h.items) - 1; i >= 0 && len(out) < n; i-- {
		if h.items[i].EmployeeID == employeeID {
			out = append(out, h.items[i])
		}
	}
	return out
}
