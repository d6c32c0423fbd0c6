package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize collections
	sessionsCollection := db.Collection("sessions")
	auditCollection := db.Collection("audit_events")
	threatsCollection := db.Collection("threats")
	alertsCollection := db.Collection("alerts")

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("session_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_sessions"),
		},
		{
			Keys: bson.D{{Key: "last_activity_at", Value: -1}},
			Options: options.Index().
				SetName("session_activity"),
		},
	}

	auditIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().
				SetName("event_id_unique").
				SetUnique(true),
		},
		// Ledger order: every query sorts on this pair
		{
			Keys: bson.D{
				{Key: "timestamp", Value: 1},
				{Key: "event_id", Value: 1},
			},
			Options: options.Index().
				SetName("ledger_order"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().
				SetName("user_events_date"),
		},
		{
			Keys: bson.D{
				{Key: "action", Value: 1},
				{Key: "timestamp", Value: 1},
			},
			Options: options.Index().
				SetName("action_events_date"),
		},
		{
			Keys: bson.D{{Key: "admin_state", Value: 1}},
			Options: options.Index().
				SetName("admin_state_index"),
		},
	}

	threatIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "threat_id", Value: 1}},
			Options: options.Index().
				SetName("threat_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().
				SetName("threat_status_date"),
		},
	}

	alertIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "alert_id", Value: 1}},
			Options: options.Index().
				SetName("alert_id_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "resolved", Value: 1},
				{Key: "severity", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().
				SetName("alert_triage"),
		},
	}

	if _, err := sessionsCollection.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	if _, err := auditCollection.Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}

	if _, err := threatsCollection.Indexes().CreateMany(ctx, threatIndexes); err != nil {
		return fmt.Errorf("failed to create threat indexes: %w", err)
	}

	if _, err := alertsCollection.Indexes().CreateMany(ctx, alertIndexes); err != nil {
		return fmt.Errorf("failed to create alert indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
