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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.PlayerID == primitive.NilObjectID || workout.Title == "" {
		return primitive.NilObjectID, errors.New("workout requires playerId and title")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}
	if workout.Source == "" {
		workout.Source = domain.SourceManual
	}

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByPlayer returns a page of the player's workouts, newest first.
func (r *mongoWorkoutRepository) ListByPlayer(ctx context.Context, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	page = page.Normalize()
	filter := bson.M{"playerId": playerID}
	applyBefore(filter, "date", page)
	opts := options.Find().
		SetSort(newestFirst("date")).
		SetLimit(int64(page.Limit))
	return r.find(ctx, filter, opts)
}

// ListByPlayerSince returns every workout dated at or after since, oldest first.
func (r *mongoWorkoutRepository) ListByPlayerSince(ctx context.Context, playerID primitive.ObjectID, since time.Time) ([]domain.Workout, error) {
	filter := bson.M{"playerId": playerID, "date": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update overwrites the editable fields of a workout owned by workout.PlayerID.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": workout.ID, "playerId": workout.PlayerID}
	update := bson.M{
		"$set": bson.M{
			"title":          workout.Title,
			"type":           workout.Type,
			"date":           workout.Date,
			"durationMin":    workout.DurationMin,
			"intensity":      workout.Intensity,
			"caloriesBurned": workout.CaloriesBurned,
			"exercises":      workout.Exercises,
			"notes":          workout.Notes,
			"updatedAt":      workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetAISummary stores the generated summary text on the workout.
func (r *mongoWorkoutRepository) SetAISummary(ctx context.Context, id primitive.ObjectID, summary string) error {
	update := bson.M{"$set": bson.M{"aiSummary": summary, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout if it belongs to playerID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, playerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "playerId": playerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// history pages and stats windows
			Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "date", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
