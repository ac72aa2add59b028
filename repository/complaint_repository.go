package repository

import (
	"context"
	"fmt"
	"time"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ComplaintRepository interface {
	Insert(ctx context.Context, c *models.Complaint) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Complaint, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ComplaintStatus, resolutionNote string, at time.Time) error
}

type complaintRepository struct {
	complaints *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) ComplaintRepository {
	return &complaintRepository{complaints: db.Collection(colComplaints)}
}

func (r *complaintRepository) Insert(ctx context.Context, c *models.Complaint) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := r.complaints.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	var c models.Complaint
	err := r.complaints.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &c, nil
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Complaint, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.complaints.Find(ctx, bson.M{"submittedBy": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Complaint
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode complaints: %w", err)
	}
	return result, nil
}

func (r *complaintRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ComplaintStatus, resolutionNote string, at time.Time) error {
	update := bson.M{"status": status, "updatedAt": at}
	if resolutionNote != "" {
		update["resolutionNote"] = resolutionNote
	}
	if status == models.ComplaintResolved {
		update["resolvedAt"] = at
	}

	result, err := r.complaints.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
