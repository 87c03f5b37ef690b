package query

import (
	"context"
	"errors"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT SNAPSHOT QUERY
// Сериализует полное состояние сотрудника в переносимый JSON-документ.
// Документ пригоден для обратного импорта без потерь.
// ══════════════════════════════════════════════════════════════════════════════

// ExportSnapshotQuery содержит параметры экспорта.
type ExportSnapshotQuery struct {
	// EmployeeID - внутренний ID сотрудника.
	EmployeeID string
}

// Validate проверяет корректность параметров запроса.
func (q ExportSnapshotQuery) Validate() error {
	if q.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	return nil
}

// ExportSnapshotResult содержит результат экспорта.
type ExportSnapshotResult struct {
	// EmployeeID - ID экспортированного сотрудника.
	EmployeeID string

	// Document - JSON-документ состояния.
	Document []byte
}

// ExportSnapshotHandler обрабатывает запросы на экспорт.
type ExportSnapshotHandler struct {
	store employee.Store
}

// NewExportSnapshotHandler создаёт новый обработчик.
func NewExportSnapshotHandler(store employee.Store) *ExportSnapshotHandler {
	return &ExportSnapshotHandler{store: store}
}

// Handle выполняет запрос.
func (h *ExportSnapshotHandler) Handle(ctx context.Context, query ExportSnapshotQuery) (*ExportSnapshotResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ExportSnapshot", shared.ErrValidation, err.Error(), err)
	}

	doc, err := h.store.ExportSnapshot(ctx, query.EmployeeID)
	if err != nil {
		return nil, err
	}

	return &ExportSnapshotResult{
		EmployeeID: query.EmployeeID,
		Document:   doc,
	}, nil
}
