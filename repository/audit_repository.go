package repository

import (
	"context"
	"fmt"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository is append-only. The core never reads audit entries back.
type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

type auditRepository struct {
	logs *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) AuditRepository {
	return &auditRepository{logs: db.Collection(colAuditLogs)}
}

func (r *auditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.logs.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
