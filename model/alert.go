package model

import "time"

// Alert severities, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type Alert struct {
	AlertID    string                 `bson:"alert_id" json:"alert_id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Severity   string                 `bson:"severity" json:"severity"`
	Type       string                 `bson:"type" json:"type"`
	Message    string                 `bson:"message" json:"message"`
	UserID     string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Details    map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	Resolved   bool                   `bson:"resolved" json:"resolved"`
	ResolvedAt time.Time              `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
