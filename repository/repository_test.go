package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"main/model"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB connects to the database named by TEST_MONGO_URI and returns a
// cleanup that drops the test database. Tests are skipped when no test
// database is configured.
func setupTestDB(t *testing.T) (*mongo.Client, func()) {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping database test")
	}

	dbName := os.Getenv("MONGO_DB_TEST")
	if dbName == "" {
		dbName = "secops_test"
	}
	os.Setenv("MONGO_DB", dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("Failed to ping MongoDB: %v", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Database(dbName).Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database %s: %v", dbName, err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
	return client, cleanup
}

func TestEndSessionIdempotent(t *testing.T) {
	client, cleanup := setupTestDB(t)
	defer cleanup()

	repo := GetSessionRepo(client)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	session := &model.Session{
		SessionID:      "sess-idem-1",
		UserID:         "user-1",
		UserEmail:      "user1@example.com",
		IPAddress:      "203.0.113.5",
		LoginTime:      now.Add(-time.Hour),
		LastActivityAt: now,
		IsActive:       true,
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	found, err := repo.EndSession(ctx, session.SessionID, now)
	if err != nil || !found {
		t.Fatalf("first EndSession() = (%v, %v), want (true, nil)", found, err)
	}

	// ending again still matches the id
	found, err = repo.EndSession(ctx, session.SessionID, now.Add(time.Second))
	if err != nil || !found {
		t.Fatalf("second EndSession() = (%v, %v), want (true, nil)", found, err)
	}

	got, err := repo.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got == nil || got.IsActive {
		t.Error("session should exist and stay inactive after repeated terminate")
	}

	found, err = repo.EndSession(ctx, "no-such-session", now)
	if err != nil {
		t.Fatalf("EndSession(unknown) error = %v", err)
	}
	if found {
		t.Error("EndSession matched a session that does not exist")
	}
}

func TestAuditQueryPaginationStable(t *testing.T) {
	client, cleanup := setupTestDB(t)
	defer cleanup()

	repo := GetAuditRepo(client)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		event := &model.AuditEvent{
			EventID:    fmt.Sprintf("evt-%03d", i),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			UserID:     "user-1",
			Action:     "login",
			Success:    true,
			AdminState: model.AuditStateActive,
		}
		if err := repo.AppendEvent(ctx, event); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
	}

	filter := AuditFilter{UserID: "user-1"}

	var collected []string
	for page := 0; page < 4; page++ {
		events, total, err := repo.QueryEvents(ctx, filter, int64(page*3), 3)
		if err != nil {
			t.Fatalf("QueryEvents(page %d) error = %v", page, err)
		}
		if total != 10 {
			t.Errorf("total = %d, want 10", total)
		}
		for _, e := range events {
			collected = append(collected, e.EventID)
		}
	}

	if len(collected) != 10 {
		t.Fatalf("pages concatenated to %d events, want 10", len(collected))
	}
	for i, id := range collected {
		want := fmt.Sprintf("evt-%03d", i)
		if id != want {
			t.Errorf("position %d = %s, want %s", i, id, want)
		}
	}

	// re-reading a page yields the same slice
	first, _, err := repo.QueryEvents(ctx, filter, 3, 3)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	again, _, err := repo.QueryEvents(ctx, filter, 3, 3)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	for i := range first {
		if first[i].EventID != again[i].EventID {
			t.Errorf("page re-read diverged at %d: %s vs %s", i, first[i].EventID, again[i].EventID)
		}
	}
}

func TestSetAdminStateTombstones(t *testing.T) {
	client, cleanup := setupTestDB(t)
	defer cleanup()

	repo := GetAuditRepo(client)
	ctx := context.Background()
	now := time.Now().UTC()

	event := &model.AuditEvent{
		EventID:    "evt-tomb-1",
		Timestamp:  now,
		UserID:     "user-1",
		Action:     "login",
		Success:    false,
		AdminState: model.AuditStateActive,
	}
	if err := repo.AppendEvent(ctx, event); err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	found, err := repo.SetAdminState(ctx, event.EventID, model.AuditStateDeleted, "ops-admin", "gdpr request", now)
	if err != nil || !found {
		t.Fatalf("SetAdminState() = (%v, %v), want (true, nil)", found, err)
	}

	// default visibility hides deleted events
	events, _, err := repo.QueryEvents(ctx, AuditFilter{
		States: []string{model.AuditStateActive, model.AuditStateFlagged},
	}, 0, 10)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	for _, e := range events {
		if e.EventID == event.EventID {
			t.Error("deleted event still visible in default query")
		}
	}

	// but the record itself survives as a tombstone
	events, _, err = repo.QueryEvents(ctx, AuditFilter{
		States: []string{model.AuditStateDeleted},
	}, 0, 10)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].EventID != event.EventID {
		t.Fatal("tombstoned event not retrievable when deleted state is requested")
	}
	if events[0].AdminActor != "ops-admin" || events[0].Action != "login" {
		t.Error("tombstone lost its actor or mutated the immutable body")
	}
}

func TestCompareAndSetStatusSerializes(t *testing.T) {
	client, cleanup := setupTestDB(t)
	defer cleanup()

	repo := GetThreatRepo(client)
	ctx := context.Background()
	now := time.Now().UTC()

	threat := &model.Threat{
		ThreatID:  "threat-cas-1",
		Type:      "brute_force",
		Severity:  model.SeverityHigh,
		Timestamp: now,
		Status:    model.ThreatDetected,
		UpdatedAt: now,
	}
	if err := repo.CreateThreat(ctx, threat); err != nil {
		t.Fatalf("CreateThreat() error = %v", err)
	}

	won, err := repo.CompareAndSetStatus(ctx, threat.ThreatID, model.ThreatDetected, model.ThreatInvestigating, now)
	if err != nil || !won {
		t.Fatalf("first CAS = (%v, %v), want (true, nil)", won, err)
	}

	// a second advance expecting the stale status loses
	won, err = repo.CompareAndSetStatus(ctx, threat.ThreatID, model.ThreatDetected, model.ThreatResolved, now)
	if err != nil {
		t.Fatalf("second CAS error = %v", err)
	}
	if won {
		t.Error("CAS with a stale expected status should not match")
	}

	got, err := repo.GetThreat(ctx, threat.ThreatID)
	if err != nil {
		t.Fatalf("GetThreat() error = %v", err)
	}
	if got.Status != model.ThreatInvestigating {
		t.Errorf("status = %s, want investigating", got.Status)
	}
}

func TestMarkResolvedIdempotent(t *testing.T) {
	client, cleanup := setupTestDB(t)
	defer cleanup()

	repo := GetAlertRepo(client)
	ctx := context.Background()
	now := time.Now().UTC()

	alert := &model.Alert{
		AlertID:   "alert-idem-1",
		Timestamp: now,
		Severity:  model.SeverityMedium,
		Type:      "anomalous_login",
		Message:   "login from new country",
	}
	if err := repo.CreateAlert(ctx, alert); err != nil {
		t.Fatalf("CreateAlert() error = %v", err)
	}

	found, changed, err := repo.MarkResolved(ctx, alert.AlertID, now)
	if err != nil || !found || !changed {
		t.Fatalf("first MarkResolved = (%v, %v, %v), want (true, true, nil)", found, changed, err)
	}

	found, changed, err = repo.MarkResolved(ctx, alert.AlertID, now.Add(time.Minute))
	if err != nil || !found {
		t.Fatalf("second MarkResolved = (%v, %v, %v), want found", found, changed, err)
	}
	if changed {
		t.Error("second resolve should change nothing")
	}

	found, _, err = repo.MarkResolved(ctx, "no-such-alert", now)
	if err != nil {
		t.Fatalf("MarkResolved(unknown) error = %v", err)
	}
	if found {
		t.Error("MarkResolved found an alert that does not exist")
	}
}
