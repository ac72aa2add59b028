package repository

import (
	"context"
	"fmt"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EngagementRepository manages the like/upvote join rows. Inserts hitting the
// unique (queryId, userId) index return ErrDuplicate so racing toggles can be
// treated as already-in-desired-state.
type EngagementRepository interface {
	InsertLike(ctx context.Context, like models.QueryLike) error
	DeleteLike(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error)
	HasLiked(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error)
	InsertUpvote(ctx context.Context, upvote models.QueryUpvote) error
	DeleteUpvote(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error)
	HasUpvoted(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error)
	DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error
}

type engagementRepository struct {
	likes   *mongo.Collection
	upvotes *mongo.Collection
}

func NewEngagementRepository(db *mongo.Database) EngagementRepository {
	return &engagementRepository{
		likes:   db.Collection(colLikes),
		upvotes: db.Collection(colUpvotes),
	}
}

func (r *engagementRepository) InsertLike(ctx context.Context, like models.QueryLike) error {
	if like.ID.IsZero() {
		like.ID = primitive.NewObjectID()
	}
	if _, err := r.likes.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (r *engagementRepository) DeleteLike(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	result, err := r.likes.DeleteOne(ctx, bson.M{"queryId": queryID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *engagementRepository) HasLiked(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	count, err := r.likes.CountDocuments(ctx, bson.M{"queryId": queryID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

func (r *engagementRepository) InsertUpvote(ctx context.Context, upvote models.QueryUpvote) error {
	if upvote.ID.IsZero() {
		upvote.ID = primitive.NewObjectID()
	}
	if _, err := r.upvotes.InsertOne(ctx, upvote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert upvote: %w", err)
	}
	return nil
}

func (r *engagementRepository) DeleteUpvote(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	result, err := r.upvotes.DeleteOne(ctx, bson.M{"queryId": queryID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete upvote: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *engagementRepository) HasUpvoted(ctx context.Context, queryID, userID primitive.ObjectID) (bool, error) {
	count, err := r.upvotes.CountDocuments(ctx, bson.M{"queryId": queryID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to check upvote: %w", err)
	}
	return count > 0, nil
}

// DeleteByQuery removes all like and upvote rows for a deleted query.
func (r *engagementRepository) DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error {
	if _, err := r.likes.DeleteMany(ctx, bson.M{"queryId": queryID}); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	if _, err := r.upvotes.DeleteMany(ctx, bson.M{"queryId": queryID}); err != nil {
		return fmt.Errorf("failed to delete upvotes: %w", err)
	}
	return nil
}
