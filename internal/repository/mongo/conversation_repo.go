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

const (
	conversationCollectionName = "conversations"
	messageCollectionName      = "messages"
)

// mongoConversationRepository keeps conversations and their messages in two
// collections linked by conversationId.
type mongoConversationRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoConversationRepository creates a new Conversation repository backed by MongoDB.
func NewMongoConversationRepository(db *mongo.Database) repository.ConversationRepository {
	return &mongoConversationRepository{
		conversations: db.Collection(conversationCollectionName),
		messages:      db.Collection(messageCollectionName),
	}
}

func (r *mongoConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (primitive.ObjectID, error) {
	if len(conv.ParticipantIDs) < 2 {
		return primitive.NilObjectID, errors.New("conversation requires at least two participants")
	}
	conv.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	if _, err := r.conversations.InsertOne(ctx, conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return conv.ID, nil
}

func (r *mongoConversationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByParticipants matches the exact participant array; callers pass it sorted.
func (r *mongoConversationRepository) FindByParticipants(ctx context.Context, participants []primitive.ObjectID) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"participantIds": participants})
}

func (r *mongoConversationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.conversations.FindOne(ctx, filter).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// ListByParticipant returns the user's conversations, most recently active first.
func (r *mongoConversationRepository) ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participantIds": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	convs := []domain.Conversation{}
	if err = cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// TouchLastMessage denormalizes the latest message onto the conversation.
func (r *mongoConversationRepository) TouchLastMessage(ctx context.Context, id primitive.ObjectID, msg *domain.Message) error {
	update := bson.M{"$set": bson.M{
		"lastMessage":   msg.Text,
		"lastSenderId":  msg.SenderID,
		"lastMessageAt": msg.CreatedAt,
		"updatedAt":     msg.CreatedAt,
	}}
	result, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoConversationRepository) AddMessage(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.ConversationID == primitive.NilObjectID || msg.SenderID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message requires conversationId and senderId")
	}
	msg.ID = primitive.NewObjectID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return primitive.NilObjectID, err
	}
	return msg.ID, nil
}

// ListMessages reads newest-first to apply the page, then reverses so the
// caller gets the page in chronological order.
func (r *mongoConversationRepository) ListMessages(ctx context.Context, conversationID primitive.ObjectID, page repository.Page) ([]domain.Message, error) {
	page = page.Normalize()
	filter := bson.M{"conversationId": conversationID}
	applyBefore(filter, "createdAt", page)
	opts := options.Find().
		SetSort(newestFirst("createdAt")).
		SetLimit(int64(page.Limit))

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []domain.Message{}
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// EnsureConversationIndexes creates necessary indexes for the conversations collection.
func EnsureConversationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// multikey: conversations of a user
			Keys: bson.D{{Key: "participantIds", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureMessageIndexes creates necessary indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
