package dto

import (
	"main/model"
	"main/utils"
	"time"
)

type CreateSessionRequest struct {
	UserID         string    `json:"user_id" binding:"required"`
	UserEmail      string    `json:"user_email" binding:"required,email"`
	IPAddress      string    `json:"ip_address" binding:"required"`
	UserAgent      string    `json:"user_agent"`
	Location       string    `json:"location"`
	LoginTime      time.Time `json:"login_time"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type TerminateSessionsRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required,min=1"`
}

// SessionView is a Session snapshot plus the fields computed at read time.
// Suspicious is never stored; it is re-derived against the clock on every
// read, so two reads may legitimately disagree.
type SessionView struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	Location       string    `json:"location,omitempty"`
	Device         string    `json:"device"`
	LoginTime      time.Time `json:"login_time"`
	LastActivityAt time.Time `json:"last_activity_at"`
	IsActive       bool      `json:"is_active"`
	Suspicious     bool      `json:"suspicious"`
}

func ToSessionView(s *model.Session, suspicious bool) *SessionView {
	return &SessionView{
		SessionID:      s.SessionID,
		UserID:         s.UserID,
		UserEmail:      s.UserEmail,
		IPAddress:      s.IPAddress,
		UserAgent:      s.UserAgent,
		Location:       s.Location,
		Device:         utils.DeviceSummary(s.UserAgent, s.Location),
		LoginTime:      s.LoginTime,
		LastActivityAt: s.LastActivityAt,
		IsActive:       s.IsActive,
		Suspicious:     suspicious,
	}
}
