package core

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or invalid user input. The submission is
// rejected and nothing is changed. Err optionally carries a sentinel for
// errors.Is.
type ValidationError struct {
	Field      string
	Message    string
	Suggestion string
	Err        error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports an operation on a record id that does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// PersistenceError wraps a storage failure. The in-memory ledger stays
// authoritative when one occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DomainError reports a record that violates an evaluator invariant.
type DomainError struct {
	RecordID int64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("record %d: %s", e.RecordID, e.Reason)
}

var (
	ErrTrackingActive  = errors.New("tracking already active")
	ErrNotTracking     = errors.New("tracking not active")
	ErrInvalidDistance = errors.New("invalid tracking distance")
)

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
