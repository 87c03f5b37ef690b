package command

import (
	"context"
	"errors"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT SNAPSHOT COMMAND
// Replaces an employee's full state with an external JSON document. The
// document is validated before any mutation: a malformed or incomplete
// snapshot leaves the current state untouched.
// ══════════════════════════════════════════════════════════════════════════════

// ImportSnapshotCommand contains the data to import an employee snapshot.
type ImportSnapshotCommand struct {
	// EmployeeID is the internal ID of the employee.
	EmployeeID string

	// Document is the raw JSON snapshot.
	Document []byte
}

// Validate validates the command.
func (c ImportSnapshotCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("import_snapshot: employee_id is required")
	}
	if len(c.Document) == 0 {
		return errors.New("import_snapshot: document is required")
	}
	return nil
}

// ImportSnapshotResult contains the result of an import.
type ImportSnapshotResult struct {
	// State is the state rebuilt from the document.
	State *employee.State

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// ImportSnapshotHandler handles the ImportSnapshotCommand.
type ImportSnapshotHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
}

// NewImportSnapshotHandler creates a new ImportSnapshotHandler.
func NewImportSnapshotHandler(store employee.Store, publisher shared.EventPublisher) *ImportSnapshotHandler {
	return &ImportSnapshotHandler{store: store, publisher: publisher}
}

// Handle executes the import command.
func (h *ImportSnapshotHandler) Handle(ctx context.Context, cmd ImportSnapshotCommand) (*ImportSnapshotResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("store", "ImportSnapshot", shared.ErrInvalidInput, "validation failed", err)
	}

	state, err := h.store.ImportSnapshot(ctx, cmd.EmployeeID, cmd.Document)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidImportFormat) {
			publishAll(h.publisher, []shared.Event{shared.NewValidationErrorEvent(
				cmd.EmployeeID, "invalid_import_format", "snapshot document rejected",
			)})
		}
		return nil, err
	}

	result := &ImportSnapshotResult{
		State: state,
		Events: []shared.Event{shared.NewSnapshotImportedEvent(
			state.ID, int(state.Points), int(state.Level),
		)},
	}
	publishAll(h.publisher, result.Events)

	return result, nil
}
