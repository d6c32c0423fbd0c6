package dto

import (
	"main/model"
	"time"
)

// AppendEventRequest carries a new ledger entry. The timestamp comes from
// the caller so imports and backfills keep their original times; Success is
// a pointer so "absent" and "false" stay distinguishable.
type AppendEventRequest struct {
	Timestamp time.Time              `json:"timestamp" binding:"required"`
	UserID    string                 `json:"user_id"`
	Action    string                 `json:"action" binding:"required"`
	Resource  string                 `json:"resource"`
	Success   *bool                  `json:"success" binding:"required"`
	IPAddress string                 `json:"ip_address"`
	UserAgent string                 `json:"user_agent"`
	Details   map[string]interface{} `json:"details"`
}

type AdminActionRequest struct {
	EventIDs   []string `json:"event_ids" binding:"required,min=1"`
	Action     string   `json:"action" binding:"required,adminaction"`
	Reason     string   `json:"reason" binding:"required"`
	StepUpCode string   `json:"step_up_code"`
}

type AdminActionResult struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"` // "success", "not_found", "error"
	Error   string `json:"error,omitempty"`
}

type AuditPage struct {
	Events     []*model.AuditEvent `json:"events"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	PageCount  int                 `json:"page_count"`
	Limit      int                 `json:"limit"`
}
