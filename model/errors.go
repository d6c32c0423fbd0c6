package model

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError is a normal, non-fatal per-item result.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvalidStateTransitionError is returned when a threat is asked to move
// somewhere its lifecycle does not allow. The threat is left unchanged.
type InvalidStateTransitionError struct {
	ThreatID string
	From     ThreatStatus
	To       ThreatStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("threat %s: illegal transition %s -> %s", e.ThreatID, e.From, e.To)
}

// StorageError wraps a transient store failure. The caller decides whether
// to retry; the core never retries on its own.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PermissionDeniedError is the hook for the external auth collaborator.
type PermissionDeniedError struct {
	Actor  string
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("actor %q lacks authority for %s", e.Actor, e.Action)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInvalidTransition(err error) bool {
	var it *InvalidStateTransitionError
	return errors.As(err, &it)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func IsPermissionDenied(err error) bool {
	var pd *PermissionDeniedError
	return errors.As(err, &pd)
}
