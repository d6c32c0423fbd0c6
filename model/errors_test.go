package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", &ValidationError{Field: "user_id", Reason: "is required"}, IsValidation},
		{"not found", &NotFoundError{Kind: "session", ID: "abc"}, IsNotFound},
		{"invalid transition", &InvalidStateTransitionError{ThreatID: "t1", From: ThreatMitigated, To: ThreatDetected}, IsInvalidTransition},
		{"storage", &StorageError{Op: "insert", Err: errors.New("connection reset")}, IsStorage},
		{"permission denied", &PermissionDeniedError{Actor: "ops", Action: "audit delete"}, IsPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("classifier rejected its own error %v", tt.err)
			}
			// classification survives wrapping
			if !tt.check(fmt.Errorf("outer: %w", tt.err)) {
				t.Errorf("classifier missed wrapped error %v", tt.err)
			}
			// other classifiers do not match
			for _, other := range tests {
				if other.name == tt.name {
					continue
				}
				if other.check(tt.err) {
					t.Errorf("%s classifier matched %s error", other.name, tt.name)
				}
			}
		})
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := &StorageError{Op: "query", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("StorageError does not unwrap to its cause")
	}
}
