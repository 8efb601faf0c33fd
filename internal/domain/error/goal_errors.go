// Package error defines domain-specific errors for the DriverLog backend.
package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is absent, soft-deleted, or not
	// owned by the caller.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrGoalVehicleNotFound is returned when the vehicle a goal is scoped to
	// does not belong to the caller. Ownership failures look identical to
	// missing vehicles so callers cannot probe other users' garages.
	ErrGoalVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidTargetValue is returned when the target value is zero or negative.
	ErrInvalidTargetValue = errors.New("invalid target value")

	// ErrInvalidGoalWindow is returned when the end date is not after the start date.
	ErrInvalidGoalWindow = errors.New("invalid goal window")

	// ErrInvalidGoalType is returned when the goal type is not one of the five
	// supported types.
	ErrInvalidGoalType = errors.New("invalid goal type")

	// ErrInvalidGoalPeriod is returned when the goal period is invalid.
	ErrInvalidGoalPeriod = errors.New("invalid goal period")

	// ErrInvalidGoalStatus is returned when a status value is unknown or the
	// requested status change is not allowed.
	ErrInvalidGoalStatus = errors.New("invalid goal status")

	// ErrGoalVersionConflict is returned when an optimistic-concurrency write
	// finds the goal row already changed by a concurrent recomputation.
	ErrGoalVersionConflict = errors.New("goal version conflict")

	// ErrProgressAggregation is returned when a fact reader query fails and the
	// goal's progress could not be refreshed.
	ErrProgressAggregation = errors.New("could not refresh progress")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTargetValue GoalErrorCode = "GOL-010001"
	ErrCodeInvalidGoalWindow  GoalErrorCode = "GOL-010002"
	ErrCodeInvalidGoalType    GoalErrorCode = "GOL-010003"
	ErrCodeInvalidGoalPeriod  GoalErrorCode = "GOL-010004"
	ErrCodeInvalidGoalStatus  GoalErrorCode = "GOL-010005"
	ErrCodeMissingGoalFields  GoalErrorCode = "GOL-010006"

	// Not-found errors (02XXXX)
	ErrCodeGoalNotFound        GoalErrorCode = "GOL-020001"
	ErrCodeGoalVehicleNotFound GoalErrorCode = "GOL-020002"

	// Conflict errors (03XXXX)
	ErrCodeGoalVersionConflict GoalErrorCode = "GOL-030001"

	// Aggregation errors (04XXXX)
	ErrCodeProgressAggregation GoalErrorCode = "GOL-040001"
)

// GoalError represents a goal error with code, optional field detail and message.
type GoalError struct {
	Code    GoalErrorCode
	Field   string // offending input field for validation errors, empty otherwise
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewGoalValidationError creates a GoalError carrying the offending field name.
func NewGoalValidationError(code GoalErrorCode, field, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
