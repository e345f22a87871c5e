package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("the request is not valid")
)

// Errors translated from database constraints
var (
	ErrEnvelopeNameNotUnique   = Invalid("an active envelope with this name already exists")
	ErrAllocationNotUnique     = Invalid("an envelope can only be allocated once per period")
	ErrRecurringAlreadyPosted  = errors.New("the recurring rule has already been posted for this date")
	ErrPeriodInstanceNotUnique = errors.New("an instance for this period already exists")
)

// ValidationError is returned when input violates a budgeting rule.
// It always carries the specific reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a ValidationError with a formatted reason.
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFound returns an error wrapping ErrResourceNotFound for the named resource.
func NotFound(resource string) error {
	return fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resource)
}
