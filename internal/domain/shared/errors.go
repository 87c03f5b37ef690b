// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrInsufficient     = errors.New("insufficient balance")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "employee", "challenge", "leaderboard"
	Op      string // Operation that failed, e.g., "Advance", "Redeem"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Employee domain errors
var (
	ErrEmployeeNotFound  = NewDomainError("employee", "Find", ErrNotFound, "employee not found")
	ErrInvalidEmployeeID = NewDomainError("employee", "Validate", ErrInvalidID, "invalid employee ID")
	ErrInvalidKPIKey     = NewDomainError("employee", "Validate", ErrInvalidInput, "unknown KPI key")
	ErrInvalidScore      = NewDomainError("employee", "Validate", ErrValueOutOfRange, "score must be between 1 and 5")
)

// Challenge domain errors
var (
	ErrChallengeNotFound = NewDomainError("challenge", "Find", ErrNotFound, "challenge not found")
	ErrInvalidTarget     = NewDomainError("challenge", "Validate", ErrValueOutOfRange, "target must be at least 1")
)

// Feedback domain errors
var (
	ErrMissingRequiredField = NewDomainError("feedback", "Validate", ErrEmptyValue, "required feedback field is empty")
)

// Redemption domain errors
var (
	ErrInsufficientPoints = NewDomainError("redemption", "Redeem", ErrInsufficient, "not enough points for this reward")
	ErrRewardNotFound     = NewDomainError("redemption", "Find", ErrNotFound, "reward not found")
)

// Check-in domain errors
var (
	ErrAlreadyCheckedInToday = NewDomainError("checkin", "CheckIn", ErrAlreadyProcessed, "already checked in today")
)

// Import/export domain errors
var (
	ErrInvalidImportFormat = NewDomainError("employee", "Import", ErrInvalidFormat, "import document missing profile or kpis")
)

// Leaderboard domain errors
var (
	ErrLeaderboardEmpty = NewDomainError("leaderboard", "Rank", ErrNotFound, "no employees to rank")
)

// Persistence errors (reported to callers, never roll back an in-memory commit)
var (
	ErrPersistenceFailed = NewDomainError("persistence", "Save", ErrExternalService, "failed to persist snapshot")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsConflict checks if the error is a duplicate/terminal-state rejection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrAlreadyProcessed)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
