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

const inviteCollectionName = "invites"

type mongoInviteRepository struct {
	collection *mongo.Collection
}

// NewMongoInviteRepository creates a new Invite repository backed by MongoDB.
func NewMongoInviteRepository(db *mongo.Database) repository.InviteRepository {
	return &mongoInviteRepository{
		collection: db.Collection(inviteCollectionName),
	}
}

func (r *mongoInviteRepository) Create(ctx context.Context, invite *domain.Invite) (primitive.ObjectID, error) {
	if invite.CoachID == primitive.NilObjectID || invite.PlayerEmail == "" {
		return primitive.NilObjectID, errors.New("invite requires coachId and playerEmail")
	}
	invite.ID = primitive.NewObjectID()
	invite.CreatedAt = time.Now().UTC()
	if invite.Status == "" {
		invite.Status = domain.InvitePending
	}

	if _, err := r.collection.InsertOne(ctx, invite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return invite.ID, nil
}

func (r *mongoInviteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invite, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindPending returns the coach's pending invite for email, if any.
func (r *mongoInviteRepository) FindPending(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error) {
	return r.findOne(ctx, bson.M{"coachId": coachID, "playerEmail": email, "status": domain.InvitePending})
}

func (r *mongoInviteRepository) findOne(ctx context.Context, filter bson.M) (*domain.Invite, error) {
	var invite domain.Invite
	if err := r.collection.FindOne(ctx, filter).Decode(&invite); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *mongoInviteRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Invite, error) {
	return r.find(ctx, bson.M{"coachId": coachID})
}

func (r *mongoInviteRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.Invite, error) {
	return r.find(ctx, bson.M{"playerEmail": email, "status": domain.InvitePending})
}

func (r *mongoInviteRepository) find(ctx context.Context, filter bson.M) ([]domain.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	invites := []domain.Invite{}
	if err = cursor.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// MarkAccepted moves a pending invite to accepted. The status filter makes
// a second acceptance fail with ErrUpdateFailed.
func (r *mongoInviteRepository) MarkAccepted(ctx context.Context, id, playerID primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "status": domain.InvitePending}
	update := bson.M{"$set": bson.M{
		"status":      domain.InviteAccepted,
		"playerId":    playerID,
		"respondedAt": at,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsureInviteIndexes creates necessary indexes for the invites collection.
func EnsureInviteIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// one pending invite per coach and email
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "playerEmail", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.InvitePending}),
		},
		{
			Keys: bson.D{{Key: "playerEmail", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
