package model

import "time"

type ThreatStatus string

const (
	ThreatDetected      ThreatStatus = "detected"
	ThreatInvestigating ThreatStatus = "investigating"
	ThreatMitigated     ThreatStatus = "mitigated"
	ThreatResolved      ThreatStatus = "resolved"
)

// AllThreatStatuses lists the lifecycle states in order.
var AllThreatStatuses = []ThreatStatus{
	ThreatDetected,
	ThreatInvestigating,
	ThreatMitigated,
	ThreatResolved,
}

type Threat struct {
	ThreatID        string       `bson:"threat_id" json:"threat_id"`
	Type            string       `bson:"type" json:"type"`
	Severity        string       `bson:"severity" json:"severity"`
	Description     string       `bson:"description" json:"description"`
	Timestamp       time.Time    `bson:"timestamp" json:"timestamp"`
	AffectedUsers   []string     `bson:"affected_users,omitempty" json:"affected_users,omitempty"`
	AlertIDs        []string     `bson:"alert_ids,omitempty" json:"alert_ids,omitempty"`
	MitigationSteps []string     `bson:"mitigation_steps,omitempty" json:"mitigation_steps,omitempty"`
	Status          ThreatStatus `bson:"status" json:"status"`
	UpdatedAt       time.Time    `bson:"updated_at" json:"updated_at"`
}

// LegalTransition reports whether a threat may move from one status to the
// next. The lifecycle only moves forward; the single shortcut is closing a
// freshly detected threat directly (false positive).
func LegalTransition(from, to ThreatStatus) bool {
	switch from {
	case ThreatDetected:
		return to == ThreatInvestigating || to == ThreatResolved
	case ThreatInvestigating:
		return to == ThreatMitigated
	case ThreatMitigated:
		return to == ThreatResolved
	}
	return false
}

func ValidThreatStatus(s ThreatStatus) bool {
	switch s {
	case ThreatDetected, ThreatInvestigating, ThreatMitigated, ThreatResolved:
		return true
	}
	return false
}
