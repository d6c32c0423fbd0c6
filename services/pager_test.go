package services

import (
	"testing"
	"time"

	"main/model"
)

func TestLogPagerNeverFails(t *testing.T) {
	alert := &model.Alert{
		AlertID:   "alert-1",
		Severity:  model.SeverityCritical,
		Type:      "brute_force",
		Message:   "repeated failures",
		Timestamp: time.Now(),
	}

	if err := (LogPager{}).Page(alert, "manual_escalation"); err != nil {
		t.Errorf("LogPager.Page() error = %v", err)
	}
}

func TestNATSPagerRejectsWithoutConnection(t *testing.T) {
	pager := &NATSPager{subject: "secops.pages"}
	alert := &model.Alert{AlertID: "alert-1", Severity: model.SeverityCritical}

	if err := pager.Page(alert, "manual_escalation"); err == nil {
		t.Error("Page without a connection should fail")
	}
}
