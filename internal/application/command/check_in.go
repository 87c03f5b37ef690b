package command

import (
	"context"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
	"github.com/zv-rewards/zv-rewards-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECK-IN COMMAND
// Orchestrates the streak transition, the point bonus and the one-time
// "consistency" badge. Day comparison is by local calendar day, not elapsed
// time: 23:59 and 00:01 the next day are adjacent days.
// ══════════════════════════════════════════════════════════════════════════════

// CheckInCommand contains the data to perform a daily check-in.
type CheckInCommand struct {
	// EmployeeID is the internal ID of the employee.
	EmployeeID string

	// Now is the check-in moment (defaults to time.Now if zero).
	Now time.Time
}

// Validate validates the command.
func (c CheckInCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("check_in: employee_id is required")
	}
	return nil
}

// CheckInResult contains the result of a check-in.
type CheckInResult struct {
	// State is the committed employee state.
	State *employee.State

	// Streak is the streak after the check-in.
	Streak int

	// PointsAwarded is the total points granted (base + exact-match bonus).
	PointsAwarded int

	// BadgeUnlocked indicates the consistency badge was just unlocked.
	BadgeUnlocked bool

	// LeveledUp indicates the award crossed a level boundary.
	LeveledUp bool

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// CheckInHandler handles the CheckInCommand.
type CheckInHandler struct {
	store     employee.Store
	publisher shared.EventPublisher
	location  *time.Location
}

// NewCheckInHandler creates a new CheckInHandler.
// The location defines what "calendar day" means; nil falls back to the
// office timezone.
func NewCheckInHandler(store employee.Store, publisher shared.EventPublisher, location *time.Location) *CheckInHandler {
	if location == nil {
		location = timeutil.DefaultTZ
	}
	return &CheckInHandler{store: store, publisher: publisher, location: location}
}

// Handle executes the check-in command.
func (h *CheckInHandler) Handle(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("checkin", "CheckIn", shared.ErrInvalidInput, "validation failed", err)
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &CheckInResult{Events: make([]shared.Event, 0, 4)}

	state, err := h.store.Update(ctx, cmd.EmployeeID, func(state *employee.State) (*employee.State, error) {
		transition := employee.ClassifyCheckIn(state.LastCheckIn, now, h.location)
		if transition == employee.StreakSameDay {
			return nil, shared.ErrAlreadyCheckedInToday
		}

		state.Streak = employee.NextStreak(state.Streak, transition)
		checkedIn := now
		state.LastCheckIn = &checkedIn

		result.Streak = state.Streak
		result.PointsAwarded = employee.CheckInPoints(state.Streak)

		oldPoints := int(state.Points)
		oldLevel := state.Level
		result.LeveledUp = state.AddPoints(result.PointsAwarded)
		result.Events = append(result.Events, shared.NewPointsChangedEvent(
			state.ID, int(state.Points)-oldPoints, int(state.Points), "check_in",
		))
		if result.LeveledUp {
			result.Events = append(result.Events, shared.NewLevelUpEvent(
				state.ID, int(oldLevel), int(state.Level),
			))
		}

		if state.Streak >= employee.ConsistencyBadgeStreak && state.UnlockBadge(employee.BadgeConsistency) {
			result.BadgeUnlocked = true
			result.Events = append(result.Events, shared.NewBadgeUnlockedEvent(
				state.ID, string(employee.BadgeConsistency),
			))
		}

		// Indicators are unchanged, but the snapshot keeps the trend series
		// densely sampled.
		state.PushKPISnapshot(now.UTC())

		result.Events = append(result.Events, shared.NewCheckedInEvent(
			state.ID, state.Streak, result.PointsAwarded,
		))

		return state, nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyCheckedInToday) {
			publishAll(h.publisher, []shared.Event{shared.NewValidationErrorEvent(
				cmd.EmployeeID, "already_checked_in", "duplicate check-in for the same calendar day",
			)})
		}
		return nil, err
	}

	result.State = state
	publishAll(h.publisher, result.Events)

	return result, nil
}
