package usecase

import (
	"errors"
	"testing"

	"main/model"
)

func TestDedupeKeyOrderInsensitive(t *testing.T) {
	a := dedupeKey("brute_force", []string{"user-2", "user-1"})
	b := dedupeKey("brute_force", []string{"user-1", "user-2"})
	if a != b {
		t.Errorf("same evidence in different order produced different keys: %q vs %q", a, b)
	}
}

func TestDedupeKeyDistinguishes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"different type", dedupeKey("brute_force", []string{"u1"}), dedupeKey("phishing", []string{"u1"})},
		{"different users", dedupeKey("brute_force", []string{"u1"}), dedupeKey("brute_force", []string{"u2"})},
		{"subset of users", dedupeKey("brute_force", []string{"u1"}), dedupeKey("brute_force", []string{"u1", "u2"})},
	}
	for _, tt := range tests {
		if tt.a == tt.b {
			t.Errorf("%s: keys collided: %q", tt.name, tt.a)
		}
	}
}

func TestDedupeKeyDoesNotMutateInput(t *testing.T) {
	users := []string{"zeta", "alpha"}
	dedupeKey("brute_force", users)
	if users[0] != "zeta" || users[1] != "alpha" {
		t.Error("dedupeKey sorted the caller's slice in place")
	}
}

func TestBulkResultMapping(t *testing.T) {
	s := &ThreatService{}

	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{"success", nil, "success"},
		{"not found", &model.NotFoundError{Kind: "alert", ID: "a1"}, "not_found"},
		{"illegal transition", &model.InvalidStateTransitionError{ThreatID: "t1", From: model.ThreatResolved, To: model.ThreatMitigated}, "skipped"},
		{"storage failure", &model.StorageError{Op: "update", Err: errors.New("timeout")}, "error"},
		{"plain error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.bulkResult("id-1", tt.err)
			if result.Status != tt.wantStatus {
				t.Errorf("bulkResult status = %q, want %q", result.Status, tt.wantStatus)
			}
			if result.ID != "id-1" {
				t.Errorf("bulkResult id = %q, want id-1", result.ID)
			}
			if tt.err != nil && tt.wantStatus != "not_found" && result.Error == "" {
				t.Error("bulkResult dropped the error detail")
			}
		})
	}
}
