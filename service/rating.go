package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingEntry is one rating in a submission batch. Exactly one of
// OfficeID/NgoID must be set.
type RatingEntry struct {
	OfficeID *primitive.ObjectID
	NgoID    *primitive.ObjectID
	Rating   int
	Comment  string
}

// RoundRating rounds an average to one decimal place, half up.
func RoundRating(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

// SubmitRatings records the submitter's ratings for the offices/NGOs assigned
// to a resolved query. Prior per-query ratings by the caller are replaced in
// the same transaction, and the query-independent per-(user,office) and
// per-(user,NGO) rows are upserted so aggregate scores stay current.
func (s *Lifecycle) SubmitRatings(ctx context.Context, actor Actor, queryID primitive.ObjectID, entries []RatingEntry) ([]models.QueryRating, error) {
	if len(entries) == 0 {
		return nil, E(CodeValidation, "at least one rating is required")
	}
	for i, entry := range entries {
		hasOffice := entry.OfficeID != nil && !entry.OfficeID.IsZero()
		hasNgo := entry.NgoID != nil && !entry.NgoID.IsZero()
		if hasOffice == hasNgo {
			return nil, Ef(CodeValidation, "rating %d must target exactly one of officeId or ngoId", i+1)
		}
		if entry.Rating < 1 || entry.Rating > 5 {
			return nil, Ef(CodeValidation, "rating %d must be an integer between 1 and 5", i+1)
		}
	}

	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleVoter || actor.ID != query.SubmittedBy {
		return nil, E(CodeForbidden, "only the query's submitter may rate it")
	}
	if query.Status != models.StatusResolved {
		return nil, Ef(CodeInvalidStatus, "ratings are only accepted once a query is RESOLVED, not %s", query.Status)
	}

	assignedOffices, err := s.assignments.ListOffices(ctx, query.ID)
	if err != nil {
		return nil, wrapInternal(err, "Failed to load assignments")
	}
	assignedNgos, err := s.assignments.ListNgos(ctx, query.ID)
	if err != nil {
		return nil, wrapInternal(err, "Failed to load assignments")
	}

	officeSet := make(map[primitive.ObjectID]bool, len(assignedOffices))
	for _, a := range assignedOffices {
		officeSet[a.OfficeID] = true
	}
	ngoSet := make(map[primitive.ObjectID]bool, len(assignedNgos))
	for _, a := range assignedNgos {
		ngoSet[a.NgoID] = true
	}

	now := time.Now()
	ratings := make([]models.QueryRating, 0, len(entries))
	for _, entry := range entries {
		if entry.OfficeID != nil && !entry.OfficeID.IsZero() {
			if !officeSet[*entry.OfficeID] {
				return nil, E(CodeInvalidOffice, "office is not assigned to this query")
			}
		} else if !ngoSet[*entry.NgoID] {
			return nil, E(CodeInvalidNgo, "NGO is not assigned to this query")
		}
		ratings = append(ratings, models.QueryRating{
			QueryID:   query.ID,
			UserID:    actor.ID,
			OfficeID:  entry.OfficeID,
			NgoID:     entry.NgoID,
			Rating:    entry.Rating,
			Comment:   entry.Comment,
			CreatedAt: now,
		})
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// The RESOLVED check above ran on a pre-transaction snapshot;
		// re-check here so a concurrent close cannot slip ratings in.
		current, err := s.queries.FindByID(ctx, query.ID)
		if err != nil {
			return err
		}
		if current.Status != models.StatusResolved {
			return E(CodeConflict, "query is no longer RESOLVED")
		}
		if err := s.ratings.DeleteQueryRatings(ctx, query.ID, actor.ID); err != nil {
			return err
		}
		if err := s.ratings.InsertQueryRatings(ctx, ratings); err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.OfficeID != nil && !entry.OfficeID.IsZero() {
				if err := s.ratings.UpsertOfficeRating(ctx, actor.ID, *entry.OfficeID, entry.Rating, entry.Comment); err != nil {
					return err
				}
			} else {
				if err := s.ratings.UpsertNgoRating(ctx, actor.ID, *entry.NgoID, entry.Rating, entry.Comment); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, wrapInternal(err, "Failed to save ratings")
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditRatingsSubmitted,
			fmt.Sprintf("%d ratings submitted for query %q", len(ratings), query.Title),
			actor,
			map[string]string{
				"queryId": query.ID.Hex(),
				"count":   strconv.Itoa(len(ratings)),
			}),
	})

	return ratings, nil
}

// OfficeScore returns the office's average rating (one decimal, half up) and
// sample size.
func (s *Lifecycle) OfficeScore(ctx context.Context, officeID primitive.ObjectID) (float64, int64, error) {
	agg, err := s.ratings.OfficeAggregate(ctx, officeID)
	if err != nil {
		return 0, 0, wrapInternal(err, "Failed to compute office score")
	}
	return RoundRating(agg.Average), agg.Count, nil
}

// NgoScore returns the NGO's average rating (one decimal, half up) and
// sample size.
func (s *Lifecycle) NgoScore(ctx context.Context, ngoID primitive.ObjectID) (float64, int64, error) {
	agg, err := s.ratings.NgoAggregate(ctx, ngoID)
	if err != nil {
		return 0, 0, wrapInternal(err, "Failed to compute NGO score")
	}
	return RoundRating(agg.Average), agg.Count, nil
}
