package mongo

import (
	"alcyxob/sportlink/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// txRunner wraps the driver's session transaction helper. Transactions
// need a replica set; the driver reports an error otherwise.
type txRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a repository.TxRunner bound to client.
func NewTxRunner(client *mongo.Client) repository.TxRunner {
	return &txRunner{client: client}
}

func (t *txRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
