package repository

import (
	"context"
	"fmt"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignmentRepository manages the office/NGO join rows for a query. The
// delete-then-insert replacement is driven by the service inside one
// TxRunner transaction.
type AssignmentRepository interface {
	DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error
	InsertOffices(ctx context.Context, assignments []models.QueryOfficeAssignment) error
	InsertNgos(ctx context.Context, assignments []models.QueryNgoAssignment) error
	ListOffices(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryOfficeAssignment, error)
	ListNgos(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryNgoAssignment, error)
}

type assignmentRepository struct {
	offices *mongo.Collection
	ngos    *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) AssignmentRepository {
	return &assignmentRepository{
		offices: db.Collection(colOfficeAssignments),
		ngos:    db.Collection(colNgoAssignments),
	}
}

func (r *assignmentRepository) DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error {
	if _, err := r.offices.DeleteMany(ctx, bson.M{"queryId": queryID}); err != nil {
		return fmt.Errorf("failed to delete office assignments: %w", err)
	}
	if _, err := r.ngos.DeleteMany(ctx, bson.M{"queryId": queryID}); err != nil {
		return fmt.Errorf("failed to delete ngo assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepository) InsertOffices(ctx context.Context, assignments []models.QueryOfficeAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(assignments))
	for i := range assignments {
		if assignments[i].ID.IsZero() {
			assignments[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, assignments[i])
	}
	if _, err := r.offices.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert office assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepository) InsertNgos(ctx context.Context, assignments []models.QueryNgoAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(assignments))
	for i := range assignments {
		if assignments[i].ID.IsZero() {
			assignments[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, assignments[i])
	}
	if _, err := r.ngos.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert ngo assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepository) ListOffices(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryOfficeAssignment, error) {
	cursor, err := r.offices.Find(ctx, bson.M{"queryId": queryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list office assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.QueryOfficeAssignment
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode office assignments: %w", err)
	}
	return result, nil
}

func (r *assignmentRepository) ListNgos(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryNgoAssignment, error) {
	cursor, err := r.ngos.Find(ctx, bson.M{"queryId": queryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list ngo assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.QueryNgoAssignment
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode ngo assignments: %w", err)
	}
	return result, nil
}
