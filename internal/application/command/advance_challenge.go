// Package command contains write operations (CQRS - Commands).
// Every handler is a processor in the sense of the rules engine: it takes the
// current employee state, applies deterministic rules, commits the new state
// through the store and publishes the resulting notifications.
package command

import (
	"context"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADVANCE CHALLENGE COMMAND
// Advances a challenge's progress by one step. Reaching the target triggers
// the completion effects: reward points, KPI delta, culture bump, the
// one-time "innovator" badge and a KPI history snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// CultureBumpOnCompletion is the unconditional culture delta on completion.
const CultureBumpOnCompletion = 2

// AdvanceChallengeCommand contains the data to advance a challenge.
type AdvanceChallengeCommand struct {
	// EmployeeID is the internal ID of the employee.
	EmployeeID string

	// ChallengeID is the ID of the challenge to advance.
	ChallengeID string
}

// Validate validates the command.
func (c AdvanceChallengeCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("advance_challenge: employee_id is required")
	}
	if c.ChallengeID == "" {
		return errors.New("advance_challenge: challenge_id is required")
	}
	return nil
}

// AdvanceChallengeResult contains the result of advancing a challenge.
type AdvanceChallengeResult struct {
	// State is the committed employee state.
	State *employee.State

	// Completed indicates the advance reached the target.
	Completed bool

	// NoOp indicates the challenge was already completed (idempotent terminal state).
	NoOp bool

	// LeveledUp indicates the reward points crossed a level boundary.
	LeveledUp bool

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// AdvanceChallengeHandler handles the AdvanceChallengeCommand.
type AdvanceChallengeHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
}

// NewAdvanceChallengeHandler creates a new AdvanceChallengeHandler.
func NewAdvanceChallengeHandler(store employee.Store, publisher shared.EventPublisher) *AdvanceChallengeHandler {
	return &AdvanceChallengeHandler{store: store, publisher: publisher}
}

// Handle executes the advance challenge command.
func (h *AdvanceChallengeHandler) Handle(ctx context.Context, cmd AdvanceChallengeCommand) (*AdvanceChallengeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("challenge", "Advance", shared.ErrInvalidInput, "validation failed", err)
	}

	result := &AdvanceChallengeResult{Events: make([]shared.Event, 0, 4)}

	state, err := h.store.Update(ctx, cmd.EmployeeID, func(state *employee.State) (*employee.State, error) {
		idx := state.FindChallenge(cmd.ChallengeID)
		if idx < 0 {
			return nil, shared.ErrChallengeNotFound
		}

		challenge := &state.Challenges[idx]
		if challenge.IsCompleted() {
			// Terminal state: no mutation, no double rewards.
			result.NoOp = true
			return state, nil
		}

		completed := challenge.Advance()
		if !completed {
			result.Events = append(result.Events, shared.NewProgressRecordedEvent(
				state.ID, challenge.ID, challenge.Progress, challenge.Target,
			))
			return state, nil
		}

		result.Completed = true

		oldPoints := int(state.Points)
		result.LeveledUp = state.AddPoints(challenge.RewardPoints)
		result.Events = append(result.Events, shared.NewPointsChangedEvent(
			state.ID, int(state.Points)-oldPoints, int(state.Points), "challenge",
		))
		if result.LeveledUp {
			result.Events = append(result.Events, shared.NewLevelUpEvent(
				state.ID, int(employee.CalculateLevel(employee.Points(oldPoints))), int(state.Level),
			))
		}

		state.AdjustKPI(challenge.KPIKey, challenge.CompletionKPIDelta())
		state.AdjustKPI(employee.KPICulture, CultureBumpOnCompletion)

		if challenge.KPIKey == employee.KPIInnovation && state.UnlockBadge(employee.BadgeInnovator) {
			result.Events = append(result.Events, shared.NewBadgeUnlockedEvent(
				state.ID, string(employee.BadgeInnovator),
			))
		}

		state.PushKPISnapshot(time.Now().UTC())

		result.Events = append(result.Events, shared.NewChallengeCompletedEvent(
			state.ID, challenge.ID, challenge.RewardPoints, string(challenge.KPIKey),
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

// publishAll publishes events after a successful commit.
// Publishing is best-effort: a subscriber failure never affects the commit.
func publishAll(publisher shared.EventPublisher, events []shared.Event) {
	if publisher == nil {
		return
	}
	for _, event := range events {
		_ = publisher.Publish(event)
	}
}
