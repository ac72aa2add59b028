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

// Counter names a cached engagement counter on the query document.
type Counter string

const (
	CounterLike    Counter = "likeCount"
	CounterUpvote  Counter = "upvoteCount"
	CounterShare   Counter = "shareCount"
	CounterComment Counter = "commentCount"
)

// QueryListFilter carries list endpoint filters and pagination.
type QueryListFilter struct {
	Status      models.QueryStatus
	PanchayatID *primitive.ObjectID
	Search      string
	Sort        string // newest | oldest | top
	Page        int
	Limit       int
}

// StatusCount is one bucket of the by-status aggregation.
type StatusCount struct {
	Status models.QueryStatus `bson:"_id" json:"status"`
	Count  int64              `bson:"count" json:"count"`
}

type QueryRepository interface {
	Insert(ctx context.Context, q *models.Query) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Query, error)
	List(ctx context.Context, filter QueryListFilter) ([]models.Query, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Query, error)
	RecentGeotagged(ctx context.Context, limit int64) ([]models.Query, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.QueryStatus, at time.Time) error
	UpdateDetails(ctx context.Context, id primitive.ObjectID, from models.QueryStatus, details QueryDetailsUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AdjustCounter(ctx context.Context, id primitive.ObjectID, counter Counter, delta int64) error
	SetThresholdReached(ctx context.Context, id primitive.ObjectID) error
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	TopUpvoted(ctx context.Context, limit int64) ([]models.Query, error)
	Count(ctx context.Context) (int64, error)
}

type queryRepository struct {
	queries *mongo.Collection
}

func NewQueryRepository(db *mongo.Database) QueryRepository {
	return &queryRepository{queries: db.Collection(colQueries)}
}

func (r *queryRepository) Insert(ctx context.Context, q *models.Query) error {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	_, err := r.queries.InsertOne(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to insert query: %w", mapMongoErr(err))
	}
	return nil
}

func (r *queryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Query, error) {
	var q models.Query
	err := r.queries.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &q, nil
}

func (r *queryRepository) List(ctx context.Context, filter QueryListFilter) ([]models.Query, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PanchayatID != nil {
		query["panchayatId"] = *filter.PanchayatID
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.queries.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count queries: %w", err)
	}

	var sortOptions bson.D
	switch filter.Sort {
	case "oldest":
		sortOptions = bson.D{{Key: "createdAt", Value: 1}}
	case "top":
		sortOptions = bson.D{{Key: "upvoteCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		sortOptions = bson.D{{Key: "createdAt", Value: -1}}
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cursor, err := r.queries.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list queries: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Query
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode queries: %w", err)
	}
	return result, total, nil
}

func (r *queryRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Query, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.queries.Find(ctx, bson.M{"submittedBy": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list user queries: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Query
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode user queries: %w", err)
	}
	return result, nil
}

func (r *queryRepository) RecentGeotagged(ctx context.Context, limit int64) ([]models.Query, error) {
	filter := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.queries.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent queries: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Query
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recent queries: %w", err)
	}
	return result, nil
}

// SetStatus moves the query from one status to another. The filter matches on
// the expected prior status so a concurrent transition makes this fail with
// ErrConflict instead of silently overwriting it.
func (r *queryRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.QueryStatus, at time.Time) error {
	update := bson.M{"status": to, "updatedAt": at}
	switch to {
	case models.StatusAccepted:
		update["acceptedAt"] = at
	case models.StatusResolved:
		update["resolvedAt"] = at
	case models.StatusClosed:
		update["closedAt"] = at
	}

	result, err := r.queries.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update query status: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.missingOrConflict(ctx, id)
	}
	return nil
}

// QueryDetailsUpdate carries the submitter-editable fields. Nil means leave
// the field untouched.
type QueryDetailsUpdate struct {
	Title           *string
	Description     *string
	WardNumber      *int
	Latitude        *float64
	Longitude       *float64
	EstimatedBudget *float64
}

func (r *queryRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, from models.QueryStatus, details QueryDetailsUpdate) error {
	update := bson.M{"updatedAt": time.Now()}
	if details.Title != nil {
		update["title"] = *details.Title
	}
	if details.Description != nil {
		update["description"] = *details.Description
	}
	if details.WardNumber != nil {
		update["wardNumber"] = *details.WardNumber
	}
	if details.Latitude != nil {
		update["latitude"] = *details.Latitude
	}
	if details.Longitude != nil {
		update["longitude"] = *details.Longitude
	}
	if details.EstimatedBudget != nil {
		update["estimatedBudget"] = *details.EstimatedBudget
	}

	result, err := r.queries.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update query details: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.missingOrConflict(ctx, id)
	}
	return nil
}

func (r *queryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.queries.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// missingOrConflict tells an absent document apart from one that moved out of
// the guarded state.
func (r *queryRepository) missingOrConflict(ctx context.Context, id primitive.ObjectID) error {
	count, err := r.queries.CountDocuments(ctx, bson.M{"_id": id})
	if err == nil && count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (r *queryRepository) AdjustCounter(ctx context.Context, id primitive.ObjectID, counter Counter, delta int64) error {
	result, err := r.queries.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{string(counter): delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to adjust %s: %w", counter, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *queryRepository) SetThresholdReached(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.queries.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"hasReachedThreshold": true},
	})
	if err != nil {
		return fmt.Errorf("failed to set threshold flag: %w", err)
	}
	return nil
}

func (r *queryRepository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.queries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}
	return counts, nil
}

func (r *queryRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.queries.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": from, "$lt": to},
	})
}

func (r *queryRepository) TopUpvoted(ctx context.Context, limit int64) ([]models.Query, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "upvoteCount", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.queries.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list top upvoted queries: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Query
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode top upvoted queries: %w", err)
	}
	return result, nil
}

func (r *queryRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountDocuments(ctx, bson.M{})
}

// QueryUpdateRepository persists the append-only transition log. Rows are
// only ever removed as part of deleting their query.
type QueryUpdateRepository interface {
	Insert(ctx context.Context, u *models.QueryUpdate) error
	ListByQuery(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryUpdate, error)
	DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error
}

type queryUpdateRepository struct {
	updates *mongo.Collection
}

func NewQueryUpdateRepository(db *mongo.Database) QueryUpdateRepository {
	return &queryUpdateRepository{updates: db.Collection(colQueryUpdates)}
}

func (r *queryUpdateRepository) Insert(ctx context.Context, u *models.QueryUpdate) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.updates.InsertOne(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to insert query update: %w", err)
	}
	return nil
}

func (r *queryUpdateRepository) DeleteByQuery(ctx context.Context, queryID primitive.ObjectID) error {
	_, err := r.updates.DeleteMany(ctx, bson.M{"queryId": queryID})
	if err != nil {
		return fmt.Errorf("failed to delete query updates: %w", err)
	}
	return nil
}

func (r *queryUpdateRepository) ListByQuery(ctx context.Context, queryID primitive.ObjectID) ([]models.QueryUpdate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.updates.Find(ctx, bson.M{"queryId": queryID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list query updates: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.QueryUpdate
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query updates: %w", err)
	}
	return result, nil
}
