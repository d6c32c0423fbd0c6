package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"main/model"

	"github.com/nats-io/nats.go"
)

// Pager delivers escalation notices to the on-call collaborator. Escalation
// raises notification priority only; it never mutates the alert itself.
type Pager interface {
	Page(alert *model.Alert, reason string) error
}

// PageNotice is the wire payload sent for an escalated alert.
type PageNotice struct {
	AlertID   string    `json:"alert_id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	UserID    string    `json:"user_id,omitempty"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSPager publishes page notices to a NATS subject.
type NATSPager struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPager(url, subject string) (*NATSPager, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %v", err)
	}
	if subject == "" {
		subject = "secops.pages"
	}
	return &NATSPager{conn: conn, subject: subject}, nil
}

func (p *NATSPager) Page(alert *model.Alert, reason string) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("NATS connection not available")
	}

	notice := PageNotice{
		AlertID:   alert.AlertID,
		Severity:  alert.Severity,
		Type:      alert.Type,
		Message:   alert.Message,
		UserID:    alert.UserID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal page notice: %v", err)
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("x-alert-id", alert.AlertID)
	msg.Header.Set("x-severity", alert.Severity)

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish page notice: %v", err)
	}

	log.Printf("Paged on-call for alert %s (%s)", alert.AlertID, alert.Severity)
	return nil
}

func (p *NATSPager) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPager is the fallback sink when no NATS URL is configured. Pages land
// in the service log so escalations are never dropped silently.
type LogPager struct{}

func (LogPager) Page(alert *model.Alert, reason string) error {
	log.Printf("[PAGE] alert=%s severity=%s type=%s reason=%s",
		alert.AlertID, alert.Severity, alert.Type, reason)
	return nil
}
