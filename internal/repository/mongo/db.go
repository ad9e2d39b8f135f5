package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connect can succeed against an unresponsive server; ping the primary.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// CollectionNames lists every collection the application writes to.
var CollectionNames = []string{
	userCollectionName,
	workoutCollectionName,
	uploadCollectionName,
	inviteCollectionName,
	conversationCollectionName,
	messageCollectionName,
	postCollectionName,
	commentCollectionName,
	physiqueCollectionName,
	insightCollectionName,
}

// EnsureIndexes creates the indexes of every collection. Failures are
// returned per collection so callers can log them without aborting.
func EnsureIndexes(ctx context.Context, db *mongo.Database) map[string]error {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		userCollectionName:         EnsureUserIndexes,
		workoutCollectionName:      EnsureWorkoutIndexes,
		uploadCollectionName:       EnsureUploadIndexes,
		inviteCollectionName:       EnsureInviteIndexes,
		conversationCollectionName: EnsureConversationIndexes,
		messageCollectionName:      EnsureMessageIndexes,
		postCollectionName:         EnsurePostIndexes,
		commentCollectionName:      EnsureCommentIndexes,
		physiqueCollectionName:     EnsurePhysiqueIndexes,
		insightCollectionName:      EnsureInsightIndexes,
	}
	failed := make(map[string]error)
	for name, fn := range ensure {
		if err := fn(ctx, db.Collection(name)); err != nil {
			failed[name] = err
		}
	}
	return failed
}

// DropAll drops every application collection. Used by the maintenance CLI.
func DropAll(ctx context.Context, db *mongo.Database) error {
	for _, name := range CollectionNames {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}
