package model

import "testing"

func TestLegalTransition(t *testing.T) {
	allowed := map[[2]ThreatStatus]bool{
		{ThreatDetected, ThreatInvestigating}: true,
		{ThreatDetected, ThreatResolved}:      true,
		{ThreatInvestigating, ThreatMitigated}: true,
		{ThreatMitigated, ThreatResolved}:      true,
	}

	for _, from := range AllThreatStatuses {
		for _, to := range AllThreatStatuses {
			want := allowed[[2]ThreatStatus{from, to}]
			if got := LegalTransition(from, to); got != want {
				t.Errorf("LegalTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestLegalTransitionRejectsUnknownStatus(t *testing.T) {
	if LegalTransition("bogus", ThreatResolved) {
		t.Error("LegalTransition accepted an unknown source status")
	}
	if LegalTransition(ThreatDetected, "bogus") {
		t.Error("LegalTransition accepted an unknown target status")
	}
}

func TestValidThreatStatus(t *testing.T) {
	for _, status := range AllThreatStatuses {
		if !ValidThreatStatus(status) {
			t.Errorf("ValidThreatStatus(%s) = false, want true", status)
		}
	}
	if ValidThreatStatus("escalated") {
		t.Error("ValidThreatStatus accepted an unknown status")
	}
}
