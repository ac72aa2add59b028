package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryLike marks that a user has liked a query. Row existence is the source
// of truth; the cached likeCount on Query is derived from it.
type QueryLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID   primitive.ObjectID `bson:"queryId" json:"queryId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// QueryUpvote marks that a user has upvoted a query.
type QueryUpvote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID   primitive.ObjectID `bson:"queryId" json:"queryId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureEngagementIndex creates a unique compound index for (queryId, userId).
// The second of two racing inserts fails with a duplicate key error.
func EnsureEngagementIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "queryId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
