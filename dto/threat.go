package dto

import "time"

// DetectThreatRequest is the evidence bundle a detector hands the engine.
// Severity is the detector's call; the engine never rescores it.
type DetectThreatRequest struct {
	Type          string    `json:"type" binding:"required"`
	Severity      string    `json:"severity" binding:"required,severity"`
	Description   string    `json:"description"`
	AffectedUsers []string  `json:"affected_users"`
	AlertIDs      []string  `json:"alert_ids"`
	Timestamp     time.Time `json:"timestamp"`
}

type AdvanceThreatRequest struct {
	Status string `json:"status" binding:"required,threatstatus"`
}

type CreateAlertRequest struct {
	Severity  string                 `json:"severity" binding:"required,severity"`
	Type      string                 `json:"type" binding:"required"`
	Message   string                 `json:"message" binding:"required"`
	UserID    string                 `json:"user_id"`
	Details   map[string]interface{} `json:"details"`
	Timestamp time.Time              `json:"timestamp"`
}

// BulkActionResult reports one item of a bulk policy action.
type BulkActionResult struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success", "not_found", "skipped", "error"
	Error  string `json:"error,omitempty"`
}
