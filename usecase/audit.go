package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

type AuditService struct {
	AuditRepo *repository.AuditRepo
	Clock     func() time.Time
}

// Query options for the ledger. Zero values pass the field through
// unfiltered; archived and deleted entries stay hidden unless asked for.
type AuditQueryOptions struct {
	UserID          string
	UserIDPrefix    string
	Action          string
	Success         *bool
	From            *time.Time
	To              *time.Time
	Page            int
	Limit           int
	IncludeArchived bool
	IncludeDeleted  bool
}

func (s *AuditService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Append adds an immutable event to the ledger. The ledger assigns the id;
// everything else is taken as given and never changes afterwards.
func (s *AuditService) Append(ctx context.Context, req *dto.AppendEventRequest) (*model.AuditEvent, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "event", Reason: "cannot be nil"}
	}
	if strings.TrimSpace(req.Action) == "" {
		return nil, &model.ValidationError{Field: "action", Reason: "is required"}
	}
	if req.Success == nil {
		return nil, &model.ValidationError{Field: "success", Reason: "is required"}
	}
	if req.Timestamp.IsZero() {
		return nil, &model.ValidationError{Field: "timestamp", Reason: "is required"}
	}

	event := &model.AuditEvent{
		EventID:    utils.GenerateID(),
		Timestamp:  req.Timestamp,
		UserID:     req.UserID,
		Action:     req.Action,
		Resource:   req.Resource,
		Success:    *req.Success,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Details:    req.Details,
		AdminState: model.AuditStateActive,
	}

	if err := s.AuditRepo.AppendEvent(ctx, event); err != nil {
		return nil, err
	}
	utils.TrackAuditEvent(event.Action)
	return event, nil
}

func (s *AuditService) visibleStates(includeArchived, includeDeleted bool) []string {
	states := []string{model.AuditStateActive, model.AuditStateFlagged}
	if includeArchived {
		states = append(states, model.AuditStateArchived)
	}
	if includeDeleted {
		states = append(states, model.AuditStateDeleted)
	}
	return states
}

func (s *AuditService) toRepoFilter(opts AuditQueryOptions) repository.AuditFilter {
	return repository.AuditFilter{
		UserID:       opts.UserID,
		UserIDPrefix: opts.UserIDPrefix,
		Action:       opts.Action,
		Success:      opts.Success,
		From:         opts.From,
		To:           opts.To,
		States:       s.visibleStates(opts.IncludeArchived, opts.IncludeDeleted),
	}
}

// Query returns one stable page of the filtered ledger. The total order by
// (timestamp, id) means re-reading a page with no intervening appends yields
// byte-identical results, and concatenated pages reconstruct the full set.
func (s *AuditService) Query(ctx context.Context, opts AuditQueryOptions) (*dto.AuditPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	skip := int64(page-1) * int64(limit)
	events, total, err := s.AuditRepo.QueryEvents(ctx, s.toRepoFilter(opts), skip, int64(limit))
	if err != nil {
		return nil, err
	}

	pageCount := int((total + int64(limit) - 1) / int64(limit))
	return &dto.AuditPage{
		Events:     events,
		TotalCount: total,
		Page:       page,
		PageCount:  pageCount,
		Limit:      limit,
	}, nil
}

// AdministrativeAction flips the administrative state of each listed event.
// Each id succeeds or fails on its own; the batch as a whole is then written
// back into the ledger as a new event, so administration is itself audited.
func (s *AuditService) AdministrativeAction(ctx context.Context, req *dto.AdminActionRequest, actor string) ([]dto.AdminActionResult, error) {
	if req == nil {
		return nil, &model.ValidationError{Field: "request", Reason: "cannot be nil"}
	}
	state, ok := model.AdminStateFor(req.Action)
	if !ok {
		return nil, &model.ValidationError{Field: "action", Reason: "must be archive, delete, flag or restore"}
	}
	if strings.TrimSpace(actor) == "" {
		return nil, &model.ValidationError{Field: "actor", Reason: "is required"}
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, &model.ValidationError{Field: "reason", Reason: "is required"}
	}

	now := s.now()
	results := make([]dto.AdminActionResult, 0, len(req.EventIDs))
	succeeded := make([]string, 0, len(req.EventIDs))
	for _, id := range req.EventIDs {
		if err := ctx.Err(); err != nil {
			results = append(results, dto.AdminActionResult{EventID: id, Status: "error", Error: "cancelled: " + err.Error()})
			utils.AuditAdminActionsTotal.WithLabelValues(req.Action, "error").Inc()
			continue
		}

		found, err := s.AuditRepo.SetAdminState(ctx, id, state, actor, req.Reason, now)
		switch {
		case err != nil:
			results = append(results, dto.AdminActionResult{EventID: id, Status: "error", Error: err.Error()})
			utils.AuditAdminActionsTotal.WithLabelValues(req.Action, "error").Inc()
		case !found:
			results = append(results, dto.AdminActionResult{EventID: id, Status: "not_found"})
			utils.AuditAdminActionsTotal.WithLabelValues(req.Action, "not_found").Inc()
		default:
			results = append(results, dto.AdminActionResult{EventID: id, Status: "success"})
			succeeded = append(succeeded, id)
			utils.AuditAdminActionsTotal.WithLabelValues(req.Action, "success").Inc()
		}
	}

	// Self-referential logging: the administrative action becomes ledger
	// history too. Failure to record it is surfaced, not swallowed.
	allOK := len(succeeded) == len(req.EventIDs)
	selfEvent := &model.AuditEvent{
		EventID:   utils.GenerateID(),
		Timestamp: now,
		UserID:    actor,
		Action:    "audit_admin_" + req.Action,
		Resource:  "audit_events",
		Success:   allOK,
		Details: map[string]interface{}{
			"event_ids": req.EventIDs,
			"succeeded": succeeded,
			"reason":    req.Reason,
		},
		AdminState: model.AuditStateActive,
	}
	if err := s.AuditRepo.AppendEvent(ctx, selfEvent); err != nil {
		return results, fmt.Errorf("administrative action applied but not recorded: %w", err)
	}

	return results, nil
}

// Export serializes the filtered, currently-visible ledger as CSV. Field
// order is fixed and details round-trip as JSON, so the same filter over the
// same data always yields identical bytes.
func (s *AuditService) Export(ctx context.Context, opts AuditQueryOptions) ([]byte, error) {
	events, err := s.AuditRepo.AllEvents(ctx, s.toRepoFilter(opts))
	if err != nil {
		return nil, err
	}
	return encodeEventsCSV(events)
}

func encodeEventsCSV(events []*model.AuditEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "user_id", "action", "resource", "success", "timestamp", "ip_address", "details"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, event := range events {
		details := ""
		if len(event.Details) > 0 {
			encoded, err := json.Marshal(event.Details)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize details for event %s: %w", event.EventID, err)
			}
			details = string(encoded)
		}

		row := []string{
			event.EventID,
			event.UserID,
			event.Action,
			event.Resource,
			strconv.FormatBool(event.Success),
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.IPAddress,
			details,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}
