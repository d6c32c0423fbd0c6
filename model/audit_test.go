package model

import "testing"

func TestAdminStateFor(t *testing.T) {
	tests := []struct {
		action    string
		wantState string
		wantOK    bool
	}{
		{AuditActionArchive, AuditStateArchived, true},
		{AuditActionDelete, AuditStateDeleted, true},
		{AuditActionFlag, AuditStateFlagged, true},
		{AuditActionRestore, AuditStateActive, true},
		{"purge", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		state, ok := AdminStateFor(tt.action)
		if state != tt.wantState || ok != tt.wantOK {
			t.Errorf("AdminStateFor(%q) = (%q, %v), want (%q, %v)",
				tt.action, state, ok, tt.wantState, tt.wantOK)
		}
	}
}
