package mongo

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const insightCollectionName = "insights"

type mongoInsightRepository struct {
	collection *mongo.Collection
}

// NewMongoInsightRepository creates a new Insight repository backed by MongoDB.
func NewMongoInsightRepository(db *mongo.Database) repository.InsightRepository {
	return &mongoInsightRepository{
		collection: db.Collection(insightCollectionName),
	}
}

func (r *mongoInsightRepository) Create(ctx context.Context, insight *domain.Insight) (primitive.ObjectID, error) {
	if insight.UserID == primitive.NilObjectID || insight.Kind == "" {
		return primitive.NilObjectID, errors.New("insight requires userId and kind")
	}
	insight.ID = primitive.NewObjectID()
	insight.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, insight); err != nil {
		return primitive.NilObjectID, err
	}
	return insight.ID, nil
}

// ListByUser returns the user's stored flow outputs, newest first. An empty
// kind lists every kind.
func (r *mongoInsightRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error) {
	filter := bson.M{"userId": userID}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	insights := []domain.Insight{}
	if err = cursor.All(ctx, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

// EnsureInsightIndexes creates necessary indexes for the insights collection.
func EnsureInsightIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
