package repository

import (
	"context"
	"main/model"
	"main/utils"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepo struct {
	MongoCollection *mongo.Collection
}

func GetAuditRepo(client *mongo.Client) *AuditRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("AUDIT_COLLECTION", "audit_events")
	return &AuditRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// AuditFilter narrows QueryEvents. UserID is exact, UserIDPrefix matches the
// start of the stored id; States limits the administrative states returned
// (empty means no state restriction).
type AuditFilter struct {
	UserID       string
	UserIDPrefix string
	Action       string
	Success      *bool
	From         *time.Time
	To           *time.Time
	States       []string
}

func (f AuditFilter) toQuery() bson.M {
	query := bson.M{}
	if f.UserID != "" {
		query["user_id"] = f.UserID
	} else if f.UserIDPrefix != "" {
		query["user_id"] = primitive.Regex{Pattern: "^" + regexEscape(f.UserIDPrefix)}
	}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.Success != nil {
		query["success"] = *f.Success
	}
	if f.From != nil || f.To != nil {
		rangeQuery := bson.M{}
		if f.From != nil {
			rangeQuery["$gte"] = *f.From
		}
		if f.To != nil {
			rangeQuery["$lte"] = *f.To
		}
		query["timestamp"] = rangeQuery
	}
	if len(f.States) > 0 {
		query["admin_state"] = bson.M{"$in": f.States}
	}
	return query
}

// AppendEvent inserts a new event. Events are never updated or removed after
// this point; only the administrative state flips via SetAdminState.
func (r *AuditRepo) AppendEvent(ctx context.Context, event *model.AuditEvent) error {
	timer := utils.TrackDBOperation("insert", "audit_events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if event == nil {
		utils.TrackError("database", "nil_audit_event")
		return &model.ValidationError{Field: "event", Reason: "cannot be nil"}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, event); err != nil {
		utils.TrackError("database", "audit_append_failed")
		return &model.StorageError{Op: "append audit event", Err: err}
	}
	return nil
}

// QueryEvents returns one page of the filtered ledger plus the filtered
// total. Sorting by (timestamp, event_id) totally orders the ledger, which
// keeps offset pagination stable when nothing is appended in between.
func (r *AuditRepo) QueryEvents(ctx context.Context, filter AuditFilter, skip, limit int64) ([]*model.AuditEvent, int64, error) {
	timer := utils.TrackDBOperation("find", "audit_events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := filter.toQuery()

	total, err := r.MongoCollection.CountDocuments(ctx, query)
	if err != nil {
		utils.TrackError("database", "audit_count_failed")
		return nil, 0, &model.StorageError{Op: "count audit events", Err: err}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "event_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.MongoCollection.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "audit_query_failed")
		return nil, 0, &model.StorageError{Op: "query audit events", Err: err}
	}
	defer cursor.Close(ctx)

	var events []*model.AuditEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, 0, &model.StorageError{Op: "decode audit events", Err: err}
	}
	return events, total, nil
}

// AllEvents streams the whole filtered set in ledger order, for export.
func (r *AuditRepo) AllEvents(ctx context.Context, filter AuditFilter) ([]*model.AuditEvent, error) {
	timer := utils.TrackDBOperation("find", "audit_events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "event_id", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, filter.toQuery(), opts)
	if err != nil {
		utils.TrackError("database", "audit_export_failed")
		return nil, &model.StorageError{Op: "export audit events", Err: err}
	}
	defer cursor.Close(ctx)

	var events []*model.AuditEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, &model.StorageError{Op: "decode audit events", Err: err}
	}
	return events, nil
}

// SetAdminState flips the administrative state of one event. The event body
// itself stays immutable; delete is a tombstone, never a removal.
func (r *AuditRepo) SetAdminState(ctx context.Context, eventID, state, actor, reason string, at time.Time) (bool, error) {
	timer := utils.TrackDBOperation("update", "audit_events")
	defer timer.ObserveDuration()

	if eventID == "" {
		utils.TrackError("database", "empty_event_id")
		return false, &model.ValidationError{Field: "event_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(
		ctx,
		bson.M{"event_id": eventID},
		bson.M{"$set": bson.M{
			"admin_state":        state,
			"admin_actor":        actor,
			"admin_reason":       reason,
			"admin_state_set_at": at,
		}},
	)
	if err != nil {
		utils.TrackError("database", "audit_admin_failed")
		return false, &model.StorageError{Op: "set audit admin state", Err: err}
	}
	return result.MatchedCount > 0, nil
}

func (r *AuditRepo) CountEvents(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "audit_events")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "audit_count_failed")
		return 0, &model.StorageError{Op: "count audit events", Err: err}
	}
	return count, nil
}
