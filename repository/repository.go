package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names
const (
	colUsers             = "users"
	colQueries           = "queries"
	colQueryUpdates      = "query_updates"
	colOfficeAssignments = "query_office_assignments"
	colNgoAssignments    = "query_ngo_assignments"
	colQueryRatings      = "query_ratings"
	colOfficeRatings     = "office_ratings"
	colNgoRatings        = "ngo_ratings"
	colLikes             = "query_likes"
	colUpvotes           = "query_upvotes"
	colComplaints        = "complaints"
	colNotifications     = "notifications"
	colAuditLogs         = "audit_logs"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert hits a unique index.
	ErrDuplicate = errors.New("duplicate document")
	// ErrConflict is returned when a guarded update loses to a concurrent
	// writer, i.e. the document no longer matches the expected prior state.
	ErrConflict = errors.New("concurrent modification")
)

// TxRunner executes a function inside one storage transaction. Every
// repository call made with the context passed to fn joins that transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxRunner struct {
	client *mongo.Client
}

// NewTxRunner wraps a mongo client session as a TxRunner.
func NewTxRunner(client *mongo.Client) TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
