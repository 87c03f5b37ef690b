package command

import (
	"context"
	"errors"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET EMPLOYEE COMMAND
// Restores an employee's state to the seed snapshot the store was created
// with. Accumulated points, badges and history are discarded.
// ══════════════════════════════════════════════════════════════════════════════

// ResetEmployeeCommand contains the data to reset an employee.
type ResetEmployeeCommand struct {
	// EmployeeID is the internal ID of the employee.
	EmployeeID string
}

// Validate validates the command.
func (c ResetEmployeeCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("reset_employee: employee_id is required")
	}
	return nil
}

// ResetEmployeeResult contains the result of a reset.
type ResetEmployeeResult struct {
	// State is the restored seed state.
	State *employee.State

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// ResetEmployeeHandler handles the ResetEmployeeCommand.
type ResetEmployeeHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
}

// NewResetEmployeeHandler creates a new ResetEmployeeHandler.
func NewResetEmployeeHandler(store employee.Store, publisher shared.EventPublisher) *ResetEmployeeHandler {
	return &ResetEmployeeHandler{store: store, publisher: publisher}
}

// Handle executes the reset command.
func (h *ResetEmployeeHandler) Handle(ctx context.Context, cmd ResetEmployeeCommand) (*ResetEmployeeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("store", "ResetEmployee", shared.ErrInvalidInput, "validation failed", err)
	}

	state, err := h.store.ResetToSeed(ctx, cmd.EmployeeID)
	if err != nil {
		return nil, err
	}

	result := &ResetEmployeeResult{
		State:  state,
		Events: []shared.Event{shared.NewEmployeeResetEvent(state.ID)},
	}
	publishAll(h.publisher, result.Events)

	return result, nil
}
