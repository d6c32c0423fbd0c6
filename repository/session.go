package repository

import (
	"context"
	"log"
	"main/model"
	"main/services"
	"main/utils"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// SessionFilter narrows ListSessions. Substring fields match anywhere in the
// stored value; nil Active passes both active and inactive sessions through.
type SessionFilter struct {
	UserID    string
	IPAddress string
	Location  string
	Active    *bool
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return &model.ValidationError{Field: "session", Reason: "cannot be nil"}
	}

	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return &model.ValidationError{Field: "session", Reason: "missing required fields"}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return &model.StorageError{Op: "create session", Err: err}
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(session); err != nil {
			utils.TrackError("cache", "session_cache_set_failed")
			log.Printf("Warning: Failed to cache session: %v", err)
		}
		if err := services.GlobalSessionCache.IncrementSessionVersion(session.UserID); err != nil {
			utils.TrackError("cache", "session_version_increment_failed")
			log.Printf("Warning: Failed to increment session version: %v", err)
		}
	}

	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		utils.TrackError("database", "empty_session_id")
		return nil, &model.ValidationError{Field: "session_id", Reason: "cannot be empty"}
	}

	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, &model.StorageError{Op: "fetch session", Err: err}
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(&session); err != nil {
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	return &session, nil
}

// ListSessions fetches sessions matching the filter, sorted by login time
// descending. Status-level filtering (suspicious) happens above the repo
// because suspicion is computed, never stored.
func (r *SessionRepo) ListSessions(ctx context.Context, filter SessionFilter) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = primitive.Regex{Pattern: regexEscape(filter.UserID), Options: "i"}
	}
	if filter.IPAddress != "" {
		query["ip_address"] = primitive.Regex{Pattern: regexEscape(filter.IPAddress)}
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexEscape(filter.Location), Options: "i"}
	}
	if filter.Active != nil {
		query["is_active"] = *filter.Active
	}

	opts := options.Find().SetSort(bson.D{{Key: "login_time", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "session_list_failed")
		return nil, &model.StorageError{Op: "list sessions", Err: err}
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, &model.StorageError{Op: "decode sessions", Err: err}
	}
	return sessions, nil
}

// TouchSession bumps last_activity_at. The owning collaborator calls this on
// every request the session makes.
func (r *SessionRepo) TouchSession(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(
		ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"last_activity_at": at}},
	)
	if err != nil {
		utils.TrackError("database", "session_touch_failed")
		return false, &model.StorageError{Op: "touch session", Err: err}
	}
	if result.MatchedCount == 0 {
		return false, nil
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteSession(sessionID); err != nil {
			log.Printf("Warning: Failed to invalidate session cache: %v", err)
		}
	}
	return true, nil
}

// EndSession deactivates a session. Matching only on session_id keeps the
// operation idempotent: ending an already-ended session still matches.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		utils.TrackError("database", "empty_session_id")
		return false, &model.ValidationError{Field: "session_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(
		ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false, "last_activity_at": at}},
	)
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return false, &model.StorageError{Op: "end session", Err: err}
	}
	if result.MatchedCount == 0 {
		return false, nil
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteSession(sessionID); err != nil {
			log.Printf("Warning: Failed to delete session from cache: %v", err)
		}
	}
	return true, nil
}

// EndUserSessions deactivates every active session a user holds. Used by the
// threat engine when a mitigation calls for it.
func (r *SessionRepo) EndUserSessions(ctx context.Context, userID string, at time.Time) (int64, error) {
	timer := utils.TrackDBOperation("update_many", "sessions")
	defer timer.ObserveDuration()

	if userID == "" {
		return 0, &model.ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateMany(
		ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "last_activity_at": at}},
	)
	if err != nil {
		utils.TrackError("database", "user_sessions_end_failed")
		return 0, &model.StorageError{Op: "end user sessions", Err: err}
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.IncrementSessionVersion(userID); err != nil {
			log.Printf("Warning: Failed to increment session version: %v", err)
		}
	}

	log.Printf("Ended %d active sessions for user %s", result.ModifiedCount, userID)
	return result.ModifiedCount, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, &model.ValidationError{Field: "user_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(
		ctx,
		bson.M{"user_id": userID, "is_active": true},
	)
	if err != nil {
		return 0, &model.StorageError{Op: "count active sessions", Err: err}
	}
	return int(count), nil
}

// regexEscape quotes regex metacharacters so substring filters behave as
// literal matches.
func regexEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (r *SessionRepo) CountAllActive(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, &model.StorageError{Op: "count active sessions", Err: err}
	}
	return count, nil
}
