package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT EVALUATION COMMAND
// Converts a 1-5 rating set into KPI deltas, appends the evaluation record
// and awards a flat bonus. Missing indicator scores default to a neutral 3.
// ══════════════════════════════════════════════════════════════════════════════

// CultureBumpOnEvaluation is the unconditional culture delta per evaluation.
const CultureBumpOnEvaluation = 1

// SubmitEvaluationCommand contains the data to submit an evaluation.
type SubmitEvaluationCommand struct {
	// EmployeeID is the internal ID of the employee being evaluated.
	EmployeeID string

	// Type is the evaluation source: self, peer or manager_review.
	Type employee.EvaluationType

	// Scores maps indicator keys to ratings 1..5. Missing keys default to 3.
	Scores map[employee.KPIKey]int

	// Comment is the free-form comment.
	Comment string

	// SubmittedAt is when the evaluation was submitted (defaults to now if zero).
	SubmittedAt time.Time
}

// Validate validates the command.
func (c SubmitEvaluationCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("submit_evaluation: employee_id is required")
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("submit_evaluation: unknown evaluation type %q", c.Type)
	}
	for key, score := range c.Scores {
		if !key.IsValid() {
			return fmt.Errorf("submit_evaluation: unknown kpi key %q", key)
		}
		if score < employee.ScoreMin || score > employee.ScoreMax {
			return fmt.Errorf("submit_evaluation: score for %s out of range: %d", key, score)
		}
	}
	return nil
}

// SubmitEvaluationResult contains the result of submitting an evaluation.
type SubmitEvaluationResult struct {
	// State is the committed employee state.
	State *employee.State

	// LeveledUp indicates the bonus points crossed a level boundary.
	LeveledUp bool

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// SubmitEvaluationHandler handles the SubmitEvaluationCommand.
type SubmitEvaluationHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
}

// NewSubmitEvaluationHandler creates a new SubmitEvaluationHandler.
func NewSubmitEvaluationHandler(store employee.Store, publisher shared.EventPublisher) *SubmitEvaluationHandler {
	return &SubmitEvaluationHandler{store: store, publisher: publisher}
}

// Handle executes the submit evaluation command.
func (h *SubmitEvaluationHandler) Handle(ctx context.Context, cmd SubmitEvaluationCommand) (*SubmitEvaluationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("evaluation", "Submit", shared.ErrInvalidInput, "validation failed", err)
	}

	submittedAt := cmd.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	evaluation, err := employee.NewEvaluation(cmd.Type, cmd.Scores, cmd.Comment, submittedAt)
	if err != nil {
		return nil, shared.WrapError("evaluation", "Submit", shared.ErrInvalidInput, "invalid evaluation", err)
	}

	result := &SubmitEvaluationResult{Events: make([]shared.Event, 0, 3)}

	state, err := h.store.Update(ctx, cmd.EmployeeID, func(state *employee.State) (*employee.State, error) {
		// All six indicators move, even the ones the evaluator left blank:
		// a missing score is a neutral 3 and yields a zero delta.
		for _, key := range employee.AllKPIKeys() {
			state.AdjustKPI(key, evaluation.KPIDelta(key))
		}
		state.AdjustKPI(employee.KPICulture, CultureBumpOnEvaluation)

		state.Evaluations = append(state.Evaluations, evaluation)

		oldPoints := int(state.Points)
		oldLevel := state.Level
		result.LeveledUp = state.AddPoints(employee.EvaluationRewardPoints)
		result.Events = append(result.Events, shared.NewPointsChangedEvent(
			state.ID, int(state.Points)-oldPoints, int(state.Points), "evaluation",
		))
		if result.LeveledUp {
			result.Events = append(result.Events, shared.NewLevelUpEvent(
				state.ID, int(oldLevel), int(state.Level),
			))
		}

		state.PushKPISnapshot(submittedAt)

		result.Events = append(result.Events, shared.NewEvaluationRecordedEvent(
			state.ID, string(evaluation.Type), employee.EvaluationRewardPoints,
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
