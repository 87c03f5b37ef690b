package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT FEEDBACK COMMAND
// Validates and records a structured SBI feedback entry. Rejection leaves the
// state untouched and awards nothing.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitFeedbackCommand contains the data to submit feedback.
type SubmitFeedbackCommand struct {
	// EmployeeID is the internal ID of the employee submitting the feedback.
	EmployeeID string

	// Recipient is who the feedback is addressed to.
	Recipient string

	// Situation describes the context.
	Situation string

	// Behavior describes the observed behavior.
	Behavior string

	// Impact describes the effect of the behavior.
	Impact string

	// IsPrivate hides the entry from everyone but the recipient.
	IsPrivate bool

	// SubmittedAt is when the feedback was submitted (defaults to now if zero).
	SubmittedAt time.Time
}

// Validate validates the command.
func (c SubmitFeedbackCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("submit_feedback: employee_id is required")
	}
	return nil
}

// SubmitFeedbackResult contains the result of submitting feedback.
type SubmitFeedbackResult struct {
	// State is the committed employee state.
	State *employee.State

	// LeveledUp indicates the bonus points crossed a level boundary.
	LeveledUp bool

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// SubmitFeedbackHandler handles the SubmitFeedbackCommand.
type SubmitFeedbackHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
}

// NewSubmitFeedbackHandler creates a new SubmitFeedbackHandler.
func NewSubmitFeedbackHandler(store employee.Store, publisher shared.EventPublisher) *SubmitFeedbackHandler {
	return &SubmitFeedbackHandler{store: store, publisher: publisher}
}

// Handle executes the submit feedback command.
func (h *SubmitFeedbackHandler) Handle(ctx context.Context, cmd SubmitFeedbackCommand) (*SubmitFeedbackResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("feedback", "Submit", shared.ErrInvalidInput, "validation failed", err)
	}

	submittedAt := cmd.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	entry := employee.Feedback{
		Recipient: cmd.Recipient,
		Situation: cmd.Situation,
		Behavior:  cmd.Behavior,
		Impact:    cmd.Impact,
		IsPrivate: cmd.IsPrivate,
		CreatedAt: submittedAt,
	}

	if missing := entry.MissingFields(); len(missing) > 0 {
		publishAll(h.publisher, []shared.Event{shared.NewValidationErrorEvent(
			cmd.EmployeeID,
			"missing_required_field",
			"empty fields: "+strings.Join(missing, ", "),
		)})
		return nil, shared.ErrMissingRequiredField
	}

	result := &SubmitFeedbackResult{Events: make([]shared.Event, 0, 3)}

	state, err := h.store.Update(ctx, cmd.EmployeeID, func(state *employee.State) (*employee.State, error) {
		// Most-recent-first: new entries are prepended.
		state.FeedbackEntries = append([]employee.Feedback{entry}, state.FeedbackEntries...)

		oldPoints := int(state.Points)
		oldLevel := state.Level
		result.LeveledUp = state.AddPoints(employee.FeedbackRewardPoints)
		result.Events = append(result.Events, shared.NewPointsChangedEvent(
			state.ID, int(state.Points)-oldPoints, int(state.Points), "feedback",
		))
		if result.LeveledUp {
			result.Events = append(result.Events, shared.NewLevelUpEvent(
				state.ID, int(oldLevel), int(state.Level),
			))
		}

		result.Events = append(result.Events, shared.NewFeedbackRecordedEvent(
			state.ID, entry.Recipient, entry.IsPrivate,
		))

		return state, nil
	})
	if err != nil {
		return nil, err
	}

	result.State = state
	publishAll(h.publisher, result.Events)

	return result, nil
}
