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

type ThreatRepo struct {
	MongoCollection *mongo.Collection
}

func GetThreatRepo(client *mongo.Client) *ThreatRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("THREATS_COLLECTION", "threats")
	return &ThreatRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ThreatRepo) CreateThreat(ctx context.Context, threat *model.Threat) error {
	timer := utils.TrackDBOperation("insert", "threats")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if threat == nil {
		utils.TrackError("database", "nil_threat")
		return &model.ValidationError{Field: "threat", Reason: "cannot be nil"}
	}

	if _, err := r.MongoCollection.InsertOne(ctx, threat); err != nil {
		utils.TrackError("database", "threat_creation_failed")
		return &model.StorageError{Op: "create threat", Err: err}
	}
	return nil
}

func (r *ThreatRepo) GetThreat(ctx context.Context, threatID string) (*model.Threat, error) {
	timer := utils.TrackDBOperation("find", "threats")
	defer timer.ObserveDuration()

	if threatID == "" {
		utils.TrackError("database", "empty_threat_id")
		return nil, &model.ValidationError{Field: "threat_id", Reason: "cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var threat model.Threat
	err := r.MongoCollection.FindOne(ctx, bson.M{"threat_id": threatID}).Decode(&threat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "threat_fetch_failed")
		return nil, &model.StorageError{Op: "fetch threat", Err: err}
	}
	return &threat, nil
}

func (r *ThreatRepo) ListThreats(ctx context.Context, status *model.ThreatStatus) ([]*model.Threat, error) {
	timer := utils.TrackDBOperation("find", "threats")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if status != nil {
		query["status"] = *status
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "threat_list_failed")
		return nil, &model.StorageError{Op: "list threats", Err: err}
	}
	defer cursor.Close(ctx)

	var threats []*model.Threat
	if err = cursor.All(ctx, &threats); err != nil {
		return nil, &model.StorageError{Op: "decode threats", Err: err}
	}
	return threats, nil
}

// CompareAndSetStatus moves a threat from an expected status to the next one
// in a single conditional update. Two racing advances cannot both match the
// expected status, so exactly one wins; the loser sees matched == 0.
func (r *ThreatRepo) CompareAndSetStatus(ctx context.Context, threatID string, from, to model.ThreatStatus, at time.Time) (bool, error) {
	timer := utils.TrackDBOperation("update", "threats")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(
		ctx,
		bson.M{"threat_id": threatID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": at}},
	)
	if err != nil {
		utils.TrackError("database", "threat_cas_failed")
		return false, &model.StorageError{Op: "update threat status", Err: err}
	}
	return result.MatchedCount > 0, nil
}

func (r *ThreatRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	timer := utils.TrackDBOperation("count", "threats")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts := make(map[string]int64, len(model.AllThreatStatuses))
	for _, status := range model.AllThreatStatuses {
		n, err := r.MongoCollection.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			utils.TrackError("database", "threat_count_failed")
			return nil, &model.StorageError{Op: "count threats", Err: err}
		}
		counts[string(status)] = n
	}
	return counts, nil
}
