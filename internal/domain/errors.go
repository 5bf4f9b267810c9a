package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// QuotaExceededError is a business-rule denial. It carries the numeric
// limit/current pair so callers can explain the refusal without re-querying.
type QuotaExceededError struct {
	Scope   string
	Limit   int32
	Current int32
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s: %d/%d", e.Scope, e.Current, e.Limit)
}

// InvalidTransitionError rejects a state-machine move not in the transition
// table.
type InvalidTransitionError struct {
	From RequestStatus
	To   RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ValidationError rejects a malformed edit, e.g. lowering a limit below its
// usage floor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
