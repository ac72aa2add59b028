package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementState is the caller-visible outcome of a toggle.
type EngagementState struct {
	IsActive bool  `json:"isActive"`
	Count    int64 `json:"count"`
}

// clampCount floors a cached counter at zero when reading it back.
func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// ToggleLike sets the user's like on a query to the desired state. The join
// row is authoritative; the cached counter moves by exactly ±1 inside the
// same transaction. Toggling to the state already held is a no-op.
func (s *Lifecycle) ToggleLike(ctx context.Context, actor Actor, queryID primitive.ObjectID, desired bool) (EngagementState, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return EngagementState{}, err
	}

	current := clampCount(query.LikeCount)

	if desired {
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.engagement.InsertLike(ctx, models.QueryLike{
				QueryID:   query.ID,
				UserID:    actor.ID,
				CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			return s.queries.AdjustCounter(ctx, query.ID, repository.CounterLike, 1)
		})
		if errors.Is(err, repository.ErrDuplicate) {
			// Racing duplicate or repeat call: already in the desired state.
			return EngagementState{IsActive: true, Count: current}, nil
		}
		if err != nil {
			return EngagementState{}, wrapInternal(err, "Failed to like query")
		}

		s.publishEngagementAudit(actor, query, models.AuditQueryLiked, "liked")
		return EngagementState{IsActive: true, Count: current + 1}, nil
	}

	var deleted bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.engagement.DeleteLike(ctx, query.ID, actor.ID)
		if err != nil || !deleted {
			return err
		}
		return s.queries.AdjustCounter(ctx, query.ID, repository.CounterLike, -1)
	})
	if err != nil {
		return EngagementState{}, wrapInternal(err, "Failed to remove like")
	}
	if !deleted {
		return EngagementState{IsActive: false, Count: current}, nil
	}
	return EngagementState{IsActive: false, Count: clampCount(current - 1)}, nil
}

// ToggleUpvote sets the user's upvote on a query to the desired state, and
// flips the one-way hasReachedThreshold flag once the count reaches the
// configured threshold.
func (s *Lifecycle) ToggleUpvote(ctx context.Context, actor Actor, queryID primitive.ObjectID, desired bool) (EngagementState, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return EngagementState{}, err
	}

	current := clampCount(query.UpvoteCount)

	if desired {
		newCount := current + 1
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.engagement.InsertUpvote(ctx, models.QueryUpvote{
				QueryID:   query.ID,
				UserID:    actor.ID,
				CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			if err := s.queries.AdjustCounter(ctx, query.ID, repository.CounterUpvote, 1); err != nil {
				return err
			}
			if !query.HasReachedThreshold && newCount >= s.upvoteThreshold {
				return s.queries.SetThresholdReached(ctx, query.ID)
			}
			return nil
		})
		if errors.Is(err, repository.ErrDuplicate) {
			return EngagementState{IsActive: true, Count: current}, nil
		}
		if err != nil {
			return EngagementState{}, wrapInternal(err, "Failed to upvote query")
		}

		s.publishEngagementAudit(actor, query, models.AuditQueryUpvoted, "upvoted")
		return EngagementState{IsActive: true, Count: newCount}, nil
	}

	var deleted bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.engagement.DeleteUpvote(ctx, query.ID, actor.ID)
		if err != nil || !deleted {
			return err
		}
		return s.queries.AdjustCounter(ctx, query.ID, repository.CounterUpvote, -1)
	})
	if err != nil {
		return EngagementState{}, wrapInternal(err, "Failed to remove upvote")
	}
	if !deleted {
		return EngagementState{IsActive: false, Count: current}, nil
	}
	return EngagementState{IsActive: false, Count: clampCount(current - 1)}, nil
}

// IncrementShare bumps the share counter. Shares have no join row and cannot
// be undone. The external share trigger hangs off ShareHook.
func (s *Lifecycle) IncrementShare(ctx context.Context, actor Actor, queryID primitive.ObjectID) (int64, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return 0, err
	}

	if err := s.queries.AdjustCounter(ctx, query.ID, repository.CounterShare, 1); err != nil {
		return 0, wrapInternal(err, "Failed to record share")
	}

	s.publishEngagementAudit(actor, query, models.AuditQueryShared, "shared")
	if s.ShareHook != nil {
		s.ShareHook(query.ID, actor.ID)
	}

	return clampCount(query.ShareCount) + 1, nil
}

func (s *Lifecycle) publishEngagementAudit(actor Actor, query *models.Query, action, verb string) {
	s.bus.Publish(Event{
		Audit: newAudit(action,
			fmt.Sprintf("query %q %s", query.Title, verb),
			actor,
			map[string]string{"queryId": query.ID.Hex()}),
	})
}
