package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryRating is a voter's rating of an office or NGO for one resolved query.
// Exactly one of OfficeID/NgoID is set.
type QueryRating struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	QueryID   primitive.ObjectID  `bson:"queryId" json:"queryId"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	OfficeID  *primitive.ObjectID `bson:"officeId,omitempty" json:"officeId,omitempty"`
	NgoID     *primitive.ObjectID `bson:"ngoId,omitempty" json:"ngoId,omitempty"`
	Rating    int                 `bson:"rating" json:"rating"`
	Comment   string              `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// OfficeRating is the query-independent rating a user holds for an office,
// unique per (user, office). Aggregate office scores are computed from these.
type OfficeRating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	OfficeID  primitive.ObjectID `bson:"officeId" json:"officeId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NgoRating is the query-independent rating a user holds for an NGO,
// unique per (user, NGO).
type NgoRating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	NgoID     primitive.ObjectID `bson:"ngoId" json:"ngoId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureRatingIndexes creates the unique compound indexes backing the
// one-rating-per-user invariants.
func EnsureRatingIndexes(officeRatings, ngoRatings *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := officeRatings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "officeId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = ngoRatings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "ngoId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
