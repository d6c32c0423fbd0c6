package repository

import (
	"context"
	"main/model"
	"main/utils"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AlertRepo struct {
	MongoCollection *mongo.Collection
}

func GetAlertRepo(client *mongo.Client) *AlertRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("ALERTS_COLLECTION", "alerts")
	return &AlertRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type AlertFilter struct {
	Severity string
	Resolved *bool
	UserID   string
}

func (r *AlertRepo) CreateAlert(ctx context.Context, alert *model.Alert) error {
	timer := utils.TrackDBOperation("insert", "alerts")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if alert == nil {
		utils.TrackError("database", "nil_alert")
		return &model.ValidationError{Field: "alert", Reason: "cannot be nil"}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, alert); err != nil {
		utils.TrackError("database", "alert_creation_failed")
		return &model.StorageError{Op: "create alert", Err: err}
	}
	return nil
}

func (r *AlertRepo) GetAlert(ctx context.Context, alertID string) (*model.Alert, error) {
	timer := utils.TrackDBOperation("find", "alerts")
	defer timer.ObserveDuration()

	if alertID == "" {
		utils.TrackError("database", "empty_alert_id")
		return nil, &model.ValidationError{Field: "alert_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var alert model.Alert
	err := r.MongoCollection.FindOne(ctx, bson.M{"alert_id": alertID}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "alert_fetch_failed")
		return nil, &model.StorageError{Op: "fetch alert", Err: err}
	}
	return &alert, nil
}

func (r *AlertRepo) ListAlerts(ctx context.Context, filter AlertFilter) ([]*model.Alert, error) {
	timer := utils.TrackDBOperation("find", "alerts")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Severity != "" {
		query["severity"] = filter.Severity
	}
	if filter.Resolved != nil {
		query["resolved"] = *filter.Resolved
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "alert_list_failed")
		return nil, &model.StorageError{Op: "list alerts", Err: err}
	}
	defer cursor.Close(ctx)

	var alerts []*model.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, &model.StorageError{Op: "decode alerts", Err: err}
	}
	return alerts, nil
}

// MarkResolved flips resolved exactly once. Returns (found, changed): a second
// resolve finds the alert but changes nothing, which callers treat as success.
func (r *AlertRepo) MarkResolved(ctx context.Context, alertID string, at time.Time) (bool, bool, error) {
	timer := utils.TrackDBOperation("update", "alerts")
	defer timer.ObserveDuration()

	if alertID == "" {
		utils.TrackError("database", "empty_alert_id")
		return false, false, &model.ValidationError{Field: "alert_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(
		ctx,
		bson.M{"alert_id": alertID, "resolved": false},
		bson.M{"$set": bson.M{"resolved": true, "resolved_at": at}},
	)
	if err != nil {
		utils.TrackError("database", "alert_resolve_failed")
		return false, false, &model.StorageError{Op: "resolve alert", Err: err}
	}
	if result.MatchedCount > 0 {
		return true, true, nil
	}

	// Nothing matched: either the alert is already resolved or it does not
	// exist. Distinguish the two so resolve stays idempotent, not lossy.
	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"alert_id": alertID})
	if err != nil {
		return false, false, &model.StorageError{Op: "resolve alert", Err: err}
	}
	return count > 0, false, nil
}

func (r *AlertRepo) CountUnresolved(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "alerts")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"resolved": false})
	if err != nil {
		utils.TrackError("database", "alert_count_failed")
		return 0, &model.StorageError{Op: "count alerts", Err: err}
	}
	return count, nil
}
