package usecase

import (
	"context"
	"fmt"
	"log"
	"main/config"
	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const detectDedupeCapacity = 1024

// ThreatService owns the threat lifecycle and the alert triage operations.
// It is the only component that reads from the other two subsystems: the
// correlation sweep turns suspicious sessions and audit failures into
// threats.
type ThreatService struct {
	ThreatRepo *repository.ThreatRepo
	AlertRepo  *repository.AlertRepo
	Sessions   *SessionService
	AuditRepo  *repository.AuditRepo
	Pager      services.Pager
	Policy     config.ThreatPolicy
	Clock      func() time.Time

	// dedupe coalesces repeated detections of the same evidence into the
	// threat already opened for it
	dedupe *lru.Cache[string, string]

	// correlation knobs
	FailureWindow    time.Duration
	FailureThreshold int
}

func NewThreatService(
	threatRepo *repository.ThreatRepo,
	alertRepo *repository.AlertRepo,
	auditRepo *repository.AuditRepo,
	sessions *SessionService,
	pager services.Pager,
	policy config.ThreatPolicy,
) *ThreatService {
	dedupe, _ := lru.New[string, string](detectDedupeCapacity)
	return &ThreatService{
		ThreatRepo:       threatRepo,
		AlertRepo:        alertRepo,
		AuditRepo:        auditRepo,
		Sessions:         sessions,
		Pager:            pager,
		Policy:           policy,
		dedupe:           dedupe,
		FailureWindow:    utils.GetEnvAsDuration("THREAT_FAILURE_WINDOW", 15*time.Minute),
		FailureThreshold: utils.GetEnvAsInt("THREAT_FAILURE_THRESHOLD", 5),
	}
}

func (s *ThreatService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func dedupeKey(threatType string, affectedUsers []string) string {
	users := make([]string, len(affectedUsers))
	copy(users, affectedUsers)
	sort.Strings(users)
	return threatType + "|" + strings.Join(users, ",")
}

// Detect opens a Threat at "detected" for the supplied evidence. Mitigation
// steps come from the policy table keyed by type; severity is whatever the
// detector said. Re-detecting identical evidence returns the threat already
// opened for it instead of piling up duplicates.
func (s *ThreatService) Detect(ctx context.Context, req *dto.DetectThreatRequest) (*model.Threat, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "evidence", Reason: "cannot be nil"}
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, &model.ValidationError{Field: "type", Reason: "is required"}
	}
	if !model.ValidSeverity(req.Severity) {
		return nil, &model.ValidationError{Field: "severity", Reason: "must be low, medium, high or critical"}
	}

	key := dedupeKey(req.Type, req.AffectedUsers)
	if existingID, ok := s.dedupe.Get(key); ok {
		existing, err := s.ThreatRepo.GetThreat(ctx, existingID)
		if err == nil && existing != nil && existing.Status != model.ThreatResolved {
			return existing, nil
		}
		// stale entry: the threat was resolved or lost, open a fresh one
		s.dedupe.Remove(key)
	}

	now := s.now()
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	threat := &model.Threat{
		ThreatID:        utils.GenerateID(),
		Type:            req.Type,
		Severity:        req.Severity,
		Description:     req.Description,
		Timestamp:       timestamp,
		AffectedUsers:   req.AffectedUsers,
		AlertIDs:        req.AlertIDs,
		MitigationSteps: s.Policy.StepsFor(req.Type),
		Status:          model.ThreatDetected,
		UpdatedAt:       now,
	}

	if err := s.ThreatRepo.CreateThreat(ctx, threat); err != nil {
		return nil, err
	}
	s.dedupe.Add(key, threat.ThreatID)
	return threat, nil
}

// Advance moves a threat along its lifecycle. The check and the write are a
// single conditional update keyed on the status the check saw, so of two
// racing advances exactly one wins; the loser reports the transition it
// actually lost against.
func (s *ThreatService) Advance(ctx context.Context, threatID string, next model.ThreatStatus) (*model.Threat, error) {
	if strings.TrimSpace(threatID) == "" {
		return nil, &model.ValidationError{Field: "threat_id", Reason: "is required"}
	}
	if !model.ValidThreatStatus(next) {
		return nil, &model.ValidationError{Field: "status", Reason: "unknown status"}
	}

	threat, err := s.ThreatRepo.GetThreat(ctx, threatID)
	if err != nil {
		return nil, err
	}
	if threat == nil {
		return nil, &model.NotFoundError{Kind: "threat", ID: threatID}
	}

	if !model.LegalTransition(threat.Status, next) {
		utils.TrackThreatTransition(string(next), "illegal")
		return nil, &model.InvalidStateTransitionError{ThreatID: threatID, From: threat.Status, To: next}
	}

	now := s.now()
	won, err := s.ThreatRepo.CompareAndSetStatus(ctx, threatID, threat.Status, next, now)
	if err != nil {
		utils.TrackThreatTransition(string(next), "error")
		return nil, err
	}
	if !won {
		// A concurrent advance got there first. Report against the state
		// that actually holds now.
		current, ferr := s.ThreatRepo.GetThreat(ctx, threatID)
		utils.TrackThreatTransition(string(next), "conflict")
		if ferr != nil || current == nil {
			return nil, &model.InvalidStateTransitionError{ThreatID: threatID, From: threat.Status, To: next}
		}
		return nil, &model.InvalidStateTransitionError{ThreatID: threatID, From: current.Status, To: next}
	}

	threat.Status = next
	threat.UpdatedAt = now
	utils.TrackThreatTransition(string(next), "success")

	// Mitigation side effect: for threat types the policy marks, entering
	// mitigated cuts off every session the affected users hold.
	if next == model.ThreatMitigated && s.Policy.AutoTerminateTypes[threat.Type] {
		for _, userID := range threat.AffectedUsers {
			ended, terr := s.Sessions.TerminateUserSessions(ctx, userID)
			if terr != nil {
				log.Printf("Warning: mitigation of threat %s could not end sessions for user %s: %v",
					threatID, userID, terr)
				continue
			}
			log.Printf("Mitigation of threat %s ended %d sessions for user %s", threatID, ended, userID)
		}
	}

	return threat, nil
}

func (s *ThreatService) GetThreat(ctx context.Context, threatID string) (*model.Threat, error) {
	threat, err := s.ThreatRepo.GetThreat(ctx, threatID)
	if err != nil {
		return nil, err
	}
	if threat == nil {
		return nil, &model.NotFoundError{Kind: "threat", ID: threatID}
	}
	return threat, nil
}

func (s *ThreatService) ListThreats(ctx context.Context, status string) ([]*model.Threat, error) {
	if status == "" {
		return s.ThreatRepo.ListThreats(ctx, nil)
	}
	st := model.ThreatStatus(status)
	if !model.ValidThreatStatus(st) {
		return nil, &model.ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.ThreatRepo.ListThreats(ctx, &st)
}

// CreateAlert registers a single detected event awaiting acknowledgment.
func (s *ThreatService) CreateAlert(ctx context.Context, req *dto.CreateAlertRequest) (*model.Alert, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "alert", Reason: "cannot be nil"}
	}
	if !model.ValidSeverity(req.Severity) {
		return nil, &model.ValidationError{Field: "severity", Reason: "must be low, medium, high or critical"}
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, &model.ValidationError{Field: "type", Reason: "is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &model.ValidationError{Field: "message", Reason: "is required"}
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	alert := &model.Alert{
		AlertID:   utils.GenerateID(),
		Timestamp: timestamp,
		Severity:  req.Severity,
		Type:      req.Type,
		Message:   req.Message,
		UserID:    req.UserID,
		Details:   req.Details,
		Resolved:  false,
	}
	if err := s.AlertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *ThreatService) ListAlerts(ctx context.Context, filter repository.AlertFilter) ([]*model.Alert, error) {
	return s.AlertRepo.ListAlerts(ctx, filter)
}

// ResolveAlert flips resolved false -> true exactly once. Resolving again is
// a no-op success, never an error.
func (s *ThreatService) ResolveAlert(ctx context.Context, alertID string) error {
	if strings.TrimSpace(alertID) == "" {
		return &model.ValidationError{Field: "alert_id", Reason: "is required"}
	}
	found, _, err := s.AlertRepo.MarkResolved(ctx, alertID, s.now())
	if err != nil {
		return err
	}
	if !found {
		return &model.NotFoundError{Kind: "alert", ID: alertID}
	}
	return nil
}

// EscalateAlert raises notification priority for a critical alert by paging
// the on-call sink. It is purely a signal: the alert record, including its
// resolved flag, stays untouched.
func (s *ThreatService) EscalateAlert(ctx context.Context, alertID string) error {
	if strings.TrimSpace(alertID) == "" {
		return &model.ValidationError{Field: "alert_id", Reason: "is required"}
	}

	alert, err := s.AlertRepo.GetAlert(ctx, alertID)
	if err != nil {
		return err
	}
	if alert == nil {
		return &model.NotFoundError{Kind: "alert", ID: alertID}
	}
	if alert.Severity != model.SeverityCritical {
		return &model.ValidationError{Field: "severity", Reason: "only critical alerts escalate"}
	}

	if err := s.Pager.Page(alert, "manual_escalation"); err != nil {
		return fmt.Errorf("failed to page for alert %s: %w", alertID, err)
	}
	utils.AlertsEscalatedTotal.Inc()
	return nil
}

// ResolveAllBelowCritical resolves every open alert whose severity is not
// critical. It is literally repeated ResolveAlert, so bulk and single-item
// behavior cannot drift apart.
func (s *ThreatService) ResolveAllBelowCritical(ctx context.Context) ([]dto.BulkActionResult, error) {
	unresolved := false
	alerts, err := s.AlertRepo.ListAlerts(ctx, repository.AlertFilter{Resolved: &unresolved})
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkActionResult, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Severity == model.SeverityCritical {
			continue
		}
		results = append(results, s.bulkResult(alert.AlertID, s.ResolveAlert(ctx, alert.AlertID)))
	}
	return results, nil
}

// EscalateAllCritical pages for every open critical alert via repeated
// EscalateAlert calls.
func (s *ThreatService) EscalateAllCritical(ctx context.Context) ([]dto.BulkActionResult, error) {
	unresolved := false
	alerts, err := s.AlertRepo.ListAlerts(ctx, repository.AlertFilter{
		Severity: model.SeverityCritical,
		Resolved: &unresolved,
	})
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkActionResult, 0, len(alerts))
	for _, alert := range alerts {
		results = append(results, s.bulkResult(alert.AlertID, s.EscalateAlert(ctx, alert.AlertID)))
	}
	return results, nil
}

// AutoMitigate advances every threat whose type the policy allows one legal
// step toward mitigated: detected threats start investigation, investigated
// threats get mitigated. Each step is a plain Advance call.
func (s *ThreatService) AutoMitigate(ctx context.Context) ([]dto.BulkActionResult, error) {
	threats, err := s.ThreatRepo.ListThreats(ctx, nil)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkActionResult, 0, len(threats))
	for _, threat := range threats {
		if !s.Policy.AutoMitigateTypes[threat.Type] {
			continue
		}

		var next model.ThreatStatus
		switch threat.Status {
		case model.ThreatDetected:
			next = model.ThreatInvestigating
		case model.ThreatInvestigating:
			next = model.ThreatMitigated
		default:
			continue
		}

		_, aerr := s.Advance(ctx, threat.ThreatID, next)
		results = append(results, s.bulkResult(threat.ThreatID, aerr))
	}
	return results, nil
}

func (s *ThreatService) bulkResult(id string, err error) dto.BulkActionResult {
	switch {
	case err == nil:
		return dto.BulkActionResult{ID: id, Status: "success"}
	case model.IsNotFound(err):
		return dto.BulkActionResult{ID: id, Status: "not_found"}
	case model.IsInvalidTransition(err):
		return dto.BulkActionResult{ID: id, Status: "skipped", Error: err.Error()}
	default:
		return dto.BulkActionResult{ID: id, Status: "error", Error: err.Error()}
	}
}

// CorrelateOnce scans the other two subsystems for threat signals: bursts
// of failed logins become brute_force threats, and users with multiple
// suspicious sessions become session_hijacking threats. The caller bounds
// the scan with its context deadline; expiry surfaces as an error rather
// than a silently truncated sweep.
func (s *ThreatService) CorrelateOnce(ctx context.Context) ([]*model.Threat, error) {
	now := s.now()
	var detected []*model.Threat

	// Rule 1: repeated authentication failures inside the window.
	from := now.Add(-s.FailureWindow)
	failed := false
	events, err := s.AuditRepo.AllEvents(ctx, repository.AuditFilter{
		Action:  "login",
		Success: &failed,
		From:    &from,
		States:  []string{model.AuditStateActive, model.AuditStateFlagged},
	})
	if err != nil {
		return nil, fmt.Errorf("correlation aborted during audit scan: %w", err)
	}

	failuresByUser := make(map[string]int)
	for _, event := range events {
		if event.UserID != "" {
			failuresByUser[event.UserID]++
		}
	}

	users := make([]string, 0, len(failuresByUser))
	for userID := range failuresByUser {
		users = append(users, userID)
	}
	sort.Strings(users)

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return detected, fmt.Errorf("correlation deadline expired: %w", err)
		}
		count := failuresByUser[userID]
		if count < s.FailureThreshold {
			continue
		}
		threat, derr := s.Detect(ctx, &dto.DetectThreatRequest{
			Type:          "brute_force",
			Severity:      model.SeverityHigh,
			Description:   fmt.Sprintf("%d failed logins for user %s within %s", count, userID, s.FailureWindow),
			AffectedUsers: []string{userID},
		})
		if derr != nil {
			log.Printf("Warning: correlation could not open brute_force threat for %s: %v", userID, derr)
			continue
		}
		detected = append(detected, threat)
	}

	// Rule 2: users holding more than one suspicious session.
	views, err := s.Sessions.ListSessions(ctx, SessionSearchOptions{Status: "suspicious"})
	if err != nil {
		return detected, fmt.Errorf("correlation aborted during session scan: %w", err)
	}

	suspiciousByUser := make(map[string]int)
	for _, view := range views {
		suspiciousByUser[view.UserID]++
	}

	users = users[:0]
	for userID := range suspiciousByUser {
		users = append(users, userID)
	}
	sort.Strings(users)

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return detected, fmt.Errorf("correlation deadline expired: %w", err)
		}
		if suspiciousByUser[userID] < 2 {
			continue
		}
		threat, derr := s.Detect(ctx, &dto.DetectThreatRequest{
			Type:          "session_hijacking",
			Severity:      model.SeverityMedium,
			Description:   fmt.Sprintf("user %s holds %d suspicious sessions", userID, suspiciousByUser[userID]),
			AffectedUsers: []string{userID},
		})
		if derr != nil {
			log.Printf("Warning: correlation could not open session_hijacking threat for %s: %v", userID, derr)
			continue
		}
		detected = append(detected, threat)
	}

	return detected, nil
}
