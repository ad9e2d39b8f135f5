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

const physiqueCollectionName = "physique_analyses"

type mongoPhysiqueRepository struct {
	collection *mongo.Collection
}

// NewMongoPhysiqueRepository creates a new PhysiqueAnalysis repository backed by MongoDB.
func NewMongoPhysiqueRepository(db *mongo.Database) repository.PhysiqueRepository {
	return &mongoPhysiqueRepository{
		collection: db.Collection(physiqueCollectionName),
	}
}

func (r *mongoPhysiqueRepository) Create(ctx context.Context, analysis *domain.PhysiqueAnalysis) (primitive.ObjectID, error) {
	if analysis.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("physique analysis requires userId")
	}
	analysis.ID = primitive.NewObjectID()
	analysis.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, analysis); err != nil {
		return primitive.NilObjectID, err
	}
	return analysis.ID, nil
}

func (r *mongoPhysiqueRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhysiqueAnalysis, error) {
	var analysis domain.PhysiqueAnalysis
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&analysis); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &analysis, nil
}

// ListByUser returns the user's analyses, newest first.
func (r *mongoPhysiqueRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	analyses := []domain.PhysiqueAnalysis{}
	if err = cursor.All(ctx, &analyses); err != nil {
		return nil, err
	}
	return analyses, nil
}

func (r *mongoPhysiqueRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePhysiqueIndexes creates necessary indexes for the physique collection.
func EnsurePhysiqueIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
