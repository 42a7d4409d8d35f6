package repo

import (
	"context"
	"errors"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	matches *mongo.Collection
}

func NewMongoRepository(client *mongo.Client, dbName string) *MongoRepository {
	return &MongoRepository{
		matches: client.Database(dbName).Collection("matches"),
	}
}

// ArchiveMatch persists a finished match document. Upsert on match_id so a
// retried archive after a transient failure does not duplicate the record.
func (r *MongoRepository) ArchiveMatch(ctx context.Context, m *model.Match) error {
	filter := bson.M{"match_id": m.MatchID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.matches.ReplaceOne(ctx, filter, m, opts)
	return err
}

// GetMatch returns an archived match by id
func (r *MongoRepository) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	if matchID == "" {
		return nil, errors.New("matchID cannot be empty")
	}

	var m model.Match
	err := r.matches.FindOne(ctx, bson.M{"match_id": matchID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetUserMatches returns archived matches a user played in, newest first, paginated
func (r *MongoRepository) GetUserMatches(ctx context.Context, userID string, page, pageSize int) ([]model.Match, error) {
	if page < 1 || pageSize < 1 || userID == "" {
		return nil, errors.New("invalid pagination or userID")
	}

	filter := bson.M{
		"$or": []bson.M{
			{"player1.user_id": userID},
			{"player2.user_id": userID},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.matches.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.Match
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetRecentMatches returns completed matches across all players, newest first
func (r *MongoRepository) GetRecentMatches(ctx context.Context, page, pageSize int) ([]model.Match, error) {
	if page < 1 || pageSize < 1 {
		return nil, errors.New("invalid pagination")
	}

	filter := bson.M{"status": model.MatchCompleted}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.matches.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.Match
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
