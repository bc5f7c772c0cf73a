// Package errs defines the error taxonomy shared by the services: boundary
// validation failures, missing records, retryable store failures and fatal
// computation invariant violations.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced record or owner that does not exist.
// Surfaced to the caller; never retried.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects malformed input at the boundary before it reaches
// any engine code. Input is never silently coerced.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a boundary validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError wraps a store failure that is safe to retry whole-cloth on
// the next scheduled run.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err should be retried by the scheduler.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// InvariantError is a fatal internal error: a computation produced a result
// that should be impossible (for example a negative month count). It is
// surfaced, never silently corrected, since correcting it would mask a
// deeper date-arithmetic bug.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Msg)
}

// Invariant builds an InvariantError.
func Invariant(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
