package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// Transactor runs a unit of work inside a single multi-document transaction.
// The unit is attempted once; a failed commit is not retried.
type Transactor struct {
	startSession func() (mongo.Session, error)
	log          zerolog.Logger
}

func NewTransactor(client *mongo.Client, log zerolog.Logger) *Transactor {
	return &Transactor{
		startSession: func() (mongo.Session, error) { return client.StartSession() },
		log:          log,
	}
}

// WithinTransaction starts a session and transaction, hands fn a context bound
// to the session, and commits when fn succeeds. An error from fn aborts; a
// failed commit has already ended the transaction and is only reported.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.startSession()
	if err != nil {
		return fmt.Errorf("%w: start session: %w", domain.ErrTransaction, err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(txOpts); err != nil {
		return fmt.Errorf("%w: start transaction: %w", domain.ErrTransaction, err)
	}

	sessCtx := mongo.NewSessionContext(ctx, sess)
	if err := fn(sessCtx); err != nil {
		t.abort(ctx, sess)
		return err
	}

	if err := sess.CommitTransaction(sessCtx); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrTransaction, err)
	}
	return nil
}

func (t *Transactor) abort(ctx context.Context, sess mongo.Session) {
	if err := sess.AbortTransaction(context.WithoutCancel(ctx)); err != nil {
		t.log.Warn().Err(err).Msg("abort transaction")
	}
}
