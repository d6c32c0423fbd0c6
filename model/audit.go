package model

import "time"

// Administrative states an audit event can be in. The event itself never
// changes once appended; only this state flips, and every flip is logged
// as its own event.
const (
	AuditStateActive   = "active"
	AuditStateArchived = "archived"
	AuditStateDeleted  = "deleted"
	AuditStateFlagged  = "flagged"
)

// Administrative actions accepted by the ledger.
const (
	AuditActionArchive = "archive"
	AuditActionDelete  = "delete"
	AuditActionFlag    = "flag"
	AuditActionRestore = "restore"
)

type AuditEvent struct {
	EventID   string                 `bson:"event_id" json:"event_id"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	Action    string                 `bson:"action" json:"action"`
	Resource  string                 `bson:"resource" json:"resource"`
	Success   bool                   `bson:"success" json:"success"`
	IPAddress string                 `bson:"ip_address" json:"ip_address"`
	UserAgent string                 `bson:"user_agent" json:"user_agent"`
	Details   map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`

	AdminState       string    `bson:"admin_state" json:"admin_state"`
	AdminActor       string    `bson:"admin_actor,omitempty" json:"admin_actor,omitempty"`
	AdminReason      string    `bson:"admin_reason,omitempty" json:"admin_reason,omitempty"`
	AdminStateSetAt  time.Time `bson:"admin_state_set_at,omitempty" json:"admin_state_set_at,omitempty"`
}

// AdminStateFor maps an administrative action to the state it produces.
func AdminStateFor(action string) (string, bool) {
	switch action {
	case AuditActionArchive:
		return AuditStateArchived, true
	case AuditActionDelete:
		return AuditStateDeleted, true
	case AuditActionFlag:
		return AuditStateFlagged, true
	case AuditActionRestore:
		return AuditStateActive, true
	}
	return "", false
}
