package config

import (
	"strings"
	"time"

	"main/utils"
)

// SessionPolicy holds the suspicion thresholds. The 2h/12h defaults come from
// the operations dashboard; nobody has written down why those exact values,
// so they stay configurable rather than hardcoded.
type SessionPolicy struct {
	InactivityThreshold time.Duration
	MaxDuration         time.Duration
}

func LoadSessionPolicy() SessionPolicy {
	return SessionPolicy{
		InactivityThreshold: utils.GetEnvAsDuration("SESSION_INACTIVITY_THRESHOLD", 2*time.Hour),
		MaxDuration:         utils.GetEnvAsDuration("SESSION_MAX_DURATION", 12*time.Hour),
	}
}

// ThreatPolicy maps threat types to their playbooks.
type ThreatPolicy struct {
	// MitigationSteps per threat type; DefaultSteps covers unknown types.
	MitigationSteps map[string][]string
	DefaultSteps    []string
	// AutoTerminateTypes lists threat types whose mitigation also terminates
	// every session of the affected users.
	AutoTerminateTypes map[string]bool
	// AutoMitigateTypes lists threat types the bulk auto-mitigation sweep is
	// allowed to advance without an operator.
	AutoMitigateTypes map[string]bool
}

var defaultMitigationSteps = map[string][]string{
	"brute_force":          {"block IP", "notify users", "require MFA"},
	"credential_stuffing":  {"block IP", "force password reset", "require MFA"},
	"session_hijacking":    {"terminate sessions", "rotate tokens", "notify users"},
	"privilege_escalation": {"revoke elevated roles", "audit recent changes", "notify security team"},
	"data_exfiltration":    {"suspend account", "snapshot audit trail", "notify security team"},
	"malware":              {"quarantine host", "block C2 addresses", "run full scan"},
	"phishing":             {"notify users", "block sender domain", "force password reset"},
}

func LoadThreatPolicy() ThreatPolicy {
	return ThreatPolicy{
		MitigationSteps: defaultMitigationSteps,
		DefaultSteps:    []string{"investigate", "notify security team"},
		AutoTerminateTypes: parseTypeSet(utils.GetEnvAsString(
			"THREAT_AUTO_TERMINATE_TYPES",
			"brute_force,credential_stuffing,session_hijacking")),
		AutoMitigateTypes: parseTypeSet(utils.GetEnvAsString(
			"THREAT_AUTO_MITIGATE_TYPES",
			"brute_force,credential_stuffing")),
	}
}

// StepsFor returns the playbook for a threat type, falling back to the
// default playbook for types the table doesn't know.
func (p ThreatPolicy) StepsFor(threatType string) []string {
	if steps, ok := p.MitigationSteps[threatType]; ok {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
	out := make([]string, len(p.DefaultSteps))
	copy(out, p.DefaultSteps)
	return out
}

func parseTypeSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			set[trimmed] = true
		}
	}
	return set
}
