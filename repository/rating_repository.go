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

// RatingAggregate is the mean and sample size for one office or NGO.
type RatingAggregate struct {
	Average float64
	Count   int64
}

type RatingRepository interface {
	DeleteQueryRatings(ctx context.Context, queryID, userID primitive.ObjectID) error
	DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error
	InsertQueryRatings(ctx context.Context, ratings []models.QueryRating) error
	ListByQuery(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryRating, error)
	UpsertOfficeRating(ctx context.Context, userID, officeID primitive.ObjectID, rating int, comment string) error
	UpsertNgoRating(ctx context.Context, userID, ngoID primitive.ObjectID, rating int, comment string) error
	OfficeAggregate(ctx context.Context, officeID primitive.ObjectID) (RatingAggregate, error)
	NgoAggregate(ctx context.Context, ngoID primitive.ObjectID) (RatingAggregate, error)
}

type ratingRepository struct {
	queryRatings  *mongo.Collection
	officeRatings *mongo.Collection
	ngoRatings    *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) RatingRepository {
	return &ratingRepository{
		queryRatings:  db.Collection(colQueryRatings),
		officeRatings: db.Collection(colOfficeRatings),
		ngoRatings:    db.Collection(colNgoRatings),
	}
}

func (r *ratingRepository) DeleteQueryRatings(ctx context.Context, queryID, userID primitive.ObjectID) error {
	_, err := r.queryRatings.DeleteMany(ctx, bson.M{"queryId": queryID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete query ratings: %w", err)
	}
	return nil
}

// DeleteByQuery removes every per-query rating row when the query itself is
// deleted. The per-(user,office) and per-(user,NGO) aggregate rows are
// query-independent and stay.
func (r *ratingRepository) DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error {
	_, err := r.queryRatings.DeleteMany(ctx, bson.M{"queryId": queryID})
	if err != nil {
		return fmt.Errorf("failed to delete query ratings: %w", err)
	}
	return nil
}

func (r *ratingRepository) InsertQueryRatings(ctx context.Context, ratings []models.QueryRating) error {
	if len(ratings) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ratings))
	for i := range ratings {
		if ratings[i].ID.IsZero() {
			ratings[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, ratings[i])
	}
	if _, err := r.queryRatings.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert query ratings: %w", mapMongoErr(err))
	}
	return nil
}

func (r *ratingRepository) ListByQuery(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryRating, error) {
	cursor, err := r.queryRatings.Find(ctx, bson.M{"queryId": queryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list query ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.QueryRating
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query ratings: %w", err)
	}
	return result, nil
}

func (r *ratingRepository) UpsertOfficeRating(ctx context.Context, userID, officeID primitive.ObjectID, rating int, comment string) error {
	_, err := r.officeRatings.UpdateOne(ctx,
		bson.M{"userId": userID, "officeId": officeID},
		bson.M{"$set": bson.M{"rating": rating, "comment": comment, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert office rating: %w", mapMongoErr(err))
	}
	return nil
}

func (r *ratingRepository) UpsertNgoRating(ctx context.Context, userID, ngoID primitive.ObjectID, rating int, comment string) error {
	_, err := r.ngoRatings.UpdateOne(ctx,
		bson.M{"userId": userID, "ngoId": ngoID},
		bson.M{"$set": bson.M{"rating": rating, "comment": comment, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ngo rating: %w", mapMongoErr(err))
	}
	return nil
}

func (r *ratingRepository) OfficeAggregate(ctx context.Context, officeID primitive.ObjectID) (RatingAggregate, error) {
	return aggregate(ctx, r.officeRatings, bson.M{"officeId": officeID})
}

func (r *ratingRepository) NgoAggregate(ctx context.Context, ngoID primitive.ObjectID) (RatingAggregate, error) {
	return aggregate(ctx, r.ngoRatings, bson.M{"ngoId": ngoID})
}

func aggregate(ctx context.Context, collection *mongo.Collection, match bson.M) (RatingAggregate, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return RatingAggregate{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return RatingAggregate{}, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(rows) == 0 {
		return RatingAggregate{}, nil
	}
	return RatingAggregate{Average: rows[0].Average, Count: rows[0].Count}, nil
}
