package usecase

import (
	"context"
	"log"
	"main/config"
	"main/dto"
	"main/model"
	"main/repository"
	"main/utils"
	"sort"
	"strings"
	"time"
)

type SessionService struct {
	SessionRepo *repository.SessionRepo
	Policy      config.SessionPolicy
	Clock       func() time.Time
}

// Searching/Filtering options for sessions
type SessionSearchOptions struct {
	UserID    string // substring
	IPAddress string // substring
	Location  string // substring
	Status    string // "", "active", "inactive", "suspicious"
	SortBy    string // "login_time", "last_activity", "user_email", "location"
	SortOrder string // "asc" or "desc"
}

type TerminateResult struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"` // "success", "not_found", "error"
	Error     string `json:"error,omitempty"`
}

func (s *SessionService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Suspicious is a pure function of the clock and the session's two
// timestamps. Stale activity or an overlong session flags it; the flag is a
// heuristic view, not a security verdict, and is never persisted.
func Suspicious(now, lastActivity, loginTime time.Time, policy config.SessionPolicy) bool {
	return now.Sub(lastActivity) > policy.InactivityThreshold ||
		now.Sub(loginTime) > policy.MaxDuration
}

// helper functions
func sortSessionViews(views []*dto.SessionView, sortBy string, sortOrder string) {
	sort.SliceStable(views, func(i, j int) bool {
		descending := sortOrder == "desc"
		switch sortBy {
		case "user_email":
			if descending {
				return views[i].UserEmail > views[j].UserEmail
			}
			return views[i].UserEmail < views[j].UserEmail
		case "location":
			if descending {
				return views[i].Location > views[j].Location
			}
			return views[i].Location < views[j].Location
		case "last_activity":
			if descending {
				return views[i].LastActivityAt.After(views[j].LastActivityAt)
			}
			return views[i].LastActivityAt.Before(views[j].LastActivityAt)
		default: // login_time
			if descending {
				return views[i].LoginTime.After(views[j].LoginTime)
			}
			return views[i].LoginTime.Before(views[j].LoginTime)
		}
	})
}

// CreateSession registers a fresh login.
func (s *SessionService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*model.Session, error) {
	if req.UserID == "" {
		return nil, &model.ValidationError{Field: "user_id", Reason: "is required"}
	}

	now := s.now()
	loginTime := req.LoginTime
	if loginTime.IsZero() {
		loginTime = now
	}
	lastActivity := req.LastActivityAt
	if lastActivity.IsZero() {
		lastActivity = loginTime
	}
	if lastActivity.Before(loginTime) {
		return nil, &model.ValidationError{Field: "last_activity_at", Reason: "cannot precede login time"}
	}

	location := req.Location
	if location == "" {
		loc, err := utils.GetLocationFromIP(req.IPAddress)
		if err != nil {
			log.Printf("Warning: Failed to resolve location for %s: %v", req.IPAddress, err)
		} else {
			location = loc
		}
	}

	session := &model.Session{
		SessionID:      utils.GenerateID(),
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		Location:       location,
		LoginTime:      loginTime,
		LastActivityAt: lastActivity,
		IsActive:       true,
	}

	if err := s.SessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// TouchSession records activity on a session.
func (s *SessionService) TouchSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return &model.ValidationError{Field: "session_id", Reason: "is required"}
	}
	found, err := s.SessionRepo.TouchSession(ctx, sessionID, s.now())
	if err != nil {
		return err
	}
	if !found {
		return &model.NotFoundError{Kind: "session", ID: sessionID}
	}
	return nil
}

// ListSessions applies the substring/status filters and sorting, computing
// suspicion against a single clock reading so one listing is internally
// consistent.
func (s *SessionService) ListSessions(ctx context.Context, opts SessionSearchOptions) ([]*dto.SessionView, error) {
	filter := repository.SessionFilter{
		UserID:    strings.TrimSpace(opts.UserID),
		IPAddress: strings.TrimSpace(opts.IPAddress),
		Location:  strings.TrimSpace(opts.Location),
	}

	switch opts.Status {
	case "active":
		active := true
		filter.Active = &active
	case "inactive":
		active := false
		filter.Active = &active
	case "", "suspicious":
		// suspicion cuts across active/inactive; filter after the fetch
	default:
		return nil, &model.ValidationError{Field: "status", Reason: "must be active, inactive or suspicious"}
	}

	sessions, err := s.SessionRepo.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]*dto.SessionView, 0, len(sessions))
	for _, session := range sessions {
		suspicious := Suspicious(now, session.LastActivityAt, session.LoginTime, s.Policy)
		if opts.Status == "suspicious" && !suspicious {
			continue
		}
		views = append(views, dto.ToSessionView(session, suspicious))
	}

	sortSessionViews(views, opts.SortBy, opts.SortOrder)
	return views, nil
}

// Terminate deactivates one session. Terminating a session that is already
// inactive succeeds again; only an unknown id is a NotFound.
func (s *SessionService) Terminate(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return &model.ValidationError{Field: "session_id", Reason: "is required"}
	}

	found, err := s.SessionRepo.EndSession(ctx, sessionID, s.now())
	if err != nil {
		utils.TrackSessionTermination("error")
		return err
	}
	if !found {
		utils.TrackSessionTermination("not_found")
		return &model.NotFoundError{Kind: "session", ID: sessionID}
	}
	utils.TrackSessionTermination("success")
	return nil
}

// TerminateMany fans Terminate out over the ids. Best effort: item 6 failing
// does not undo items 1-5, and every outcome is reported per id.
func (s *SessionService) TerminateMany(ctx context.Context, sessionIDs []string) []TerminateResult {
	results := make([]TerminateResult, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if err := ctx.Err(); err != nil {
			results = append(results, TerminateResult{SessionID: id, Status: "error", Error: "cancelled: " + err.Error()})
			continue
		}

		err := s.Terminate(ctx, id)
		switch {
		case err == nil:
			results = append(results, TerminateResult{SessionID: id, Status: "success"})
		case model.IsNotFound(err):
			results = append(results, TerminateResult{SessionID: id, Status: "not_found"})
		default:
			results = append(results, TerminateResult{SessionID: id, Status: "error", Error: err.Error()})
		}
	}
	return results
}

// TerminateUserSessions ends every active session a user holds, reporting
// how many were ended. The threat engine uses this during mitigation.
func (s *SessionService) TerminateUserSessions(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, &model.ValidationError{Field: "user_id", Reason: "is required"}
	}
	return s.SessionRepo.EndUserSessions(ctx, userID, s.now())
}

func (s *SessionService) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	return s.SessionRepo.CountActiveSessions(ctx, userID)
}
