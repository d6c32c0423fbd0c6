package model

import "time"

type Session struct {
	SessionID      string    `bson:"session_id" json:"session_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	UserEmail      string    `bson:"user_email" json:"user_email"`
	IPAddress      string    `bson:"ip_address" json:"ip_address"`
	UserAgent      string    `bson:"user_agent" json:"user_agent"`
	Location       string    `bson:"location,omitempty" json:"location,omitempty"`
	LoginTime      time.Time `bson:"login_time" json:"login_time"`
	LastActivityAt time.Time `bson:"last_activity_at" json:"last_activity_at"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
}
