// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these are the notifications the engine emits as data.
// Rendering, sound, or celebratory effects are entirely the presentation
// layer's responsibility.
const (
	// Points & level events
	EventPointsChanged EventType = "points.changed"
	EventLevelUp       EventType = "points.level_up"

	// Challenge events
	EventChallengeCompleted EventType = "challenge.completed"
	EventProgressRecorded   EventType = "challenge.progress_recorded"

	// Badge events
	EventBadgeUnlocked EventType = "badge.unlocked"

	// Redemption events
	EventRedeemed EventType = "redemption.redeemed"

	// Evaluation & feedback events
	EventEvaluationRecorded EventType = "evaluation.recorded"
	EventFeedbackRecorded   EventType = "feedback.recorded"

	// Check-in events
	EventCheckedIn             EventType = "checkin.checked_in"
	EventAlreadyCheckedInToday EventType = "checkin.duplicate"

	// Validation events
	EventValidationError EventType = "validation.error"

	// Store events
	EventSnapshotImported EventType = "store.snapshot_imported"
	EventEmployeeReset    EventType = "store.employee_reset"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Points Events
// ═══════════════════════════════════════════════════════════════════════════

// PointsChangedEvent is emitted whenever an employee's points change.
type PointsChangedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Delta      int    `json:"delta"`
	NewTotal   int    `json:"new_total"`
	Source     string `json:"source"` // e.g., "challenge", "evaluation", "check_in", "redemption"
}

// Payload implements Event interface.
func (e PointsChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"delta":       e.Delta,
		"new_total":   e.NewTotal,
		"source":      e.Source,
	}
}

// NewPointsChangedEvent creates a new PointsChangedEvent.
func NewPointsChangedEvent(employeeID string, delta, newTotal int, source string) PointsChangedEvent {
	return PointsChangedEvent{
		BaseEvent:  NewBaseEvent(EventPointsChanged, employeeID),
		EmployeeID: employeeID,
		Delta:      delta,
		NewTotal:   newTotal,
		Source:     source,
	}
}

// LevelUpEvent is emitted when an employee's derived level increases.
type LevelUpEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	OldLevel   int    `json:"old_level"`
	NewLevel   int    `json:"new_level"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"old_level":   e.OldLevel,
		"new_level":   e.NewLevel,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(employeeID string, oldLevel, newLevel int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent:  NewBaseEvent(EventLevelUp, employeeID),
		EmployeeID: employeeID,
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Challenge Events
// ═══════════════════════════════════════════════════════════════════════════

// ChallengeCompletedEvent is emitted when a challenge reaches its target.
type ChallengeCompletedEvent struct {
	BaseEvent
	EmployeeID   string `json:"employee_id"`
	ChallengeID  string `json:"challenge_id"`
	RewardPoints int    `json:"reward_points"`
	KPIKey       string `json:"kpi_key"`
}

// Payload implements Event interface.
func (e ChallengeCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id":   e.EmployeeID,
		"challenge_id":  e.ChallengeID,
		"reward_points": e.RewardPoints,
		"kpi_key":       e.KPIKey,
	}
}

// NewChallengeCompletedEvent creates a new ChallengeCompletedEvent.
func NewChallengeCompletedEvent(employeeID, challengeID string, rewardPoints int, kpiKey string) ChallengeCompletedEvent {
	return ChallengeCompletedEvent{
		BaseEvent:    NewBaseEvent(EventChallengeCompleted, employeeID),
		EmployeeID:   employeeID,
		ChallengeID:  challengeID,
		RewardPoints: rewardPoints,
		KPIKey:       kpiKey,
	}
}

// ProgressRecordedEvent is emitted when a challenge advances without completing.
type ProgressRecordedEvent struct {
	BaseEvent
	EmployeeID  string `json:"employee_id"`
	ChallengeID string `json:"challenge_id"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

// Payload implements Event interface.
func (e ProgressRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id":  e.EmployeeID,
		"challenge_id": e.ChallengeID,
		"progress":     e.Progress,
		"target":       e.Target,
	}
}

// NewProgressRecordedEvent creates a new ProgressRecordedEvent.
func NewProgressRecordedEvent(employeeID, challengeID string, progress, target int) ProgressRecordedEvent {
	return ProgressRecordedEvent{
		BaseEvent:   NewBaseEvent(EventProgressRecorded, employeeID),
		EmployeeID:  employeeID,
		ChallengeID: challengeID,
		Progress:    progress,
		Target:      target,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Badge Events
// ═══════════════════════════════════════════════════════════════════════════

// BadgeUnlockedEvent is emitted when an employee unlocks a badge for the first time.
type BadgeUnlockedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	BadgeID    string `json:"badge_id"`
}

// Payload implements Event interface.
func (e BadgeUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"badge_id":    e.BadgeID,
	}
}

// NewBadgeUnlockedEvent creates a new BadgeUnlockedEvent.
func NewBadgeUnlockedEvent(employeeID, badgeID string) BadgeUnlockedEvent {
	return BadgeUnlockedEvent{
		BaseEvent:  NewBaseEvent(EventBadgeUnlocked, employeeID),
		EmployeeID: employeeID,
		BadgeID:    badgeID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Redemption Events
// ═══════════════════════════════════════════════════════════════════════════

// RedeemedEvent is emitted when an employee redeems a catalog reward.
type RedeemedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	RewardID   string `json:"reward_id"`
	Cost       int    `json:"cost"`
	Remaining  int    `json:"remaining"`
}

// Payload implements Event interface.
func (e RedeemedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"reward_id":   e.RewardID,
		"cost":        e.Cost,
		"remaining":   e.Remaining,
	}
}

// NewRedeemedEvent creates a new RedeemedEvent.
func NewRedeemedEvent(employeeID, rewardID string, cost, remaining int) RedeemedEvent {
	return RedeemedEvent{
		BaseEvent:  NewBaseEvent(EventRedeemed, employeeID),
		EmployeeID: employeeID,
		RewardID:   rewardID,
		Cost:       cost,
		Remaining:  remaining,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Evaluation & Feedback Events
// ═══════════════════════════════════════════════════════════════════════════

// EvaluationRecordedEvent is emitted when an evaluation is applied.
type EvaluationRecordedEvent struct {
	BaseEvent
	EmployeeID     string `json:"employee_id"`
	EvaluationType string `json:"evaluation_type"`
	PointsAwarded  int    `json:"points_awarded"`
}

// Payload implements Event interface.
func (e EvaluationRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id":     e.EmployeeID,
		"evaluation_type": e.EvaluationType,
		"points_awarded":  e.PointsAwarded,
	}
}

// NewEvaluationRecordedEvent creates a new EvaluationRecordedEvent.
func NewEvaluationRecordedEvent(employeeID, evaluationType string, pointsAwarded int) EvaluationRecordedEvent {
	return EvaluationRecordedEvent{
		BaseEvent:      NewBaseEvent(EventEvaluationRecorded, employeeID),
		EmployeeID:     employeeID,
		EvaluationType: evaluationType,
		PointsAwarded:  pointsAwarded,
	}
}

// FeedbackRecordedEvent is emitted when a feedback entry is accepted.
type FeedbackRecordedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Recipient  string `json:"recipient"`
	IsPrivate  bool   `json:"is_private"`
}

// Payload implements Event interface.
func (e FeedbackRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"recipient":   e.Recipient,
		"is_private":  e.IsPrivate,
	}
}

// NewFeedbackRecordedEvent creates a new FeedbackRecordedEvent.
func NewFeedbackRecordedEvent(employeeID, recipient string, isPrivate bool) FeedbackRecordedEvent {
	return FeedbackRecordedEvent{
		BaseEvent:  NewBaseEvent(EventFeedbackRecorded, employeeID),
		EmployeeID: employeeID,
		Recipient:  recipient,
		IsPrivate:  isPrivate,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Check-in Events
// ═══════════════════════════════════════════════════════════════════════════

// CheckedInEvent is emitted on a successful daily check-in.
type CheckedInEvent struct {
	BaseEvent
	EmployeeID    string `json:"employee_id"`
	Streak        int    `json:"streak"`
	PointsAwarded int    `json:"points_awarded"`
}

// Payload implements Event interface.
func (e CheckedInEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id":    e.EmployeeID,
		"streak":         e.Streak,
		"points_awarded": e.PointsAwarded,
	}
}

// NewCheckedInEvent creates a new CheckedInEvent.
func NewCheckedInEvent(employeeID string, streak, pointsAwarded int) CheckedInEvent {
	return CheckedInEvent{
		BaseEvent:     NewBaseEvent(EventCheckedIn, employeeID),
		EmployeeID:    employeeID,
		Streak:        streak,
		PointsAwarded: pointsAwarded,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Validation Events
// ═══════════════════════════════════════════════════════════════════════════

// ValidationErrorEvent is emitted when a command is rejected without mutation.
// The presentation layer consumes it to surface the rejection to the user.
type ValidationErrorEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"` // e.g., "missing_required_field", "insufficient_points"
	Message    string `json:"message"`
}

// Payload implements Event interface.
func (e ValidationErrorEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"kind":        e.Kind,
		"message":     e.Message,
	}
}

// NewValidationErrorEvent creates a new ValidationErrorEvent.
func NewValidationErrorEvent(employeeID, kind, message string) ValidationErrorEvent {
	return ValidationErrorEvent{
		BaseEvent:  NewBaseEvent(EventValidationError, employeeID),
		EmployeeID: employeeID,
		Kind:       kind,
		Message:    message,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Store Events
// ═══════════════════════════════════════════════════════════════════════════

// SnapshotImportedEvent is emitted when an external snapshot document replaces
// an employee's state.
type SnapshotImportedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Points     int    `json:"points"`
	Level      int    `json:"level"`
}

// Payload implements Event interface.
func (e SnapshotImportedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
		"points":      e.Points,
		"level":       e.Level,
	}
}

// NewSnapshotImportedEvent creates a new SnapshotImportedEvent.
func NewSnapshotImportedEvent(employeeID string, points, level int) SnapshotImportedEvent {
	return SnapshotImportedEvent{
		BaseEvent:  NewBaseEvent(EventSnapshotImported, employeeID),
		EmployeeID: employeeID,
		Points:     points,
		Level:      level,
	}
}

// EmployeeResetEvent is emitted when an employee's state is restored to the
// seed snapshot.
type EmployeeResetEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
}

// Payload implements Event interface.
func (e EmployeeResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"employee_id": e.EmployeeID,
	}
}

// NewEmployeeResetEvent creates a new EmployeeResetEvent.
func NewEmployeeResetEvent(employeeID string) EmployeeResetEvent {
	return EmployeeResetEvent{
		BaseEvent:  NewBaseEvent(EventEmployeeReset, employeeID),
		EmployeeID: employeeID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
