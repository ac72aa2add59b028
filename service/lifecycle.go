package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultUpvoteThreshold marks a query for prioritization once enough voters
// have upvoted it.
const DefaultUpvoteThreshold = 3

// Lifecycle orchestrates every citizen-facing action on a query: validate,
// mutate atomically, then hand the audit entry and notifications to the
// fan-out bus. Nothing is published when the primary transaction fails.
type Lifecycle struct {
	tx          repository.TxRunner
	queries     repository.QueryRepository
	updates     repository.QueryUpdateRepository
	assignments repository.AssignmentRepository
	ratings     repository.RatingRepository
	engagement  repository.EngagementRepository
	users       repository.UserRepository
	bus         Publisher
	log         *logrus.Logger

	upvoteThreshold int64

	// ShareHook, when set, is invoked after a share is recorded. External
	// share triggers (chat widgets etc.) hang off this.
	ShareHook func(queryID, userID primitive.ObjectID)
}

// LifecycleDeps bundles the collaborators injected into the orchestrator.
type LifecycleDeps struct {
	Tx          repository.TxRunner
	Queries     repository.QueryRepository
	Updates     repository.QueryUpdateRepository
	Assignments repository.AssignmentRepository
	Ratings     repository.RatingRepository
	Engagement  repository.EngagementRepository
	Users       repository.UserRepository
	Bus         Publisher
	Log         *logrus.Logger

	UpvoteThreshold int64
}

func NewLifecycle(deps LifecycleDeps) *Lifecycle {
	threshold := deps.UpvoteThreshold
	if threshold <= 0 {
		threshold = DefaultUpvoteThreshold
	}
	return &Lifecycle{
		tx:              deps.Tx,
		queries:         deps.Queries,
		updates:         deps.Updates,
		assignments:     deps.Assignments,
		ratings:         deps.Ratings,
		engagement:      deps.Engagement,
		users:           deps.Users,
		bus:             deps.Bus,
		log:             deps.Log,
		upvoteThreshold: threshold,
	}
}

// CreateQueryInput carries the fields a voter submits for a new query.
type CreateQueryInput struct {
	Title           string
	Description     string
	PanchayatID     primitive.ObjectID
	WardNumber      int
	DepartmentID    *primitive.ObjectID
	OfficeID        *primitive.ObjectID
	Latitude        *float64
	Longitude       *float64
	EstimatedBudget *float64
}

// CreateQuery files a new query in PENDING_REVIEW and notifies the panchayat
// officers of the query's panchayat.
func (s *Lifecycle) CreateQuery(ctx context.Context, actor Actor, input CreateQueryInput) (*models.Query, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, E(CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, E(CodeValidation, "description is required")
	}
	if input.PanchayatID.IsZero() {
		return nil, E(CodeValidation, "panchayatId is required")
	}

	now := time.Now()
	query := &models.Query{
		ID:              primitive.NewObjectID(),
		Title:           input.Title,
		Description:     input.Description,
		Status:          models.StatusPendingReview,
		PanchayatID:     input.PanchayatID,
		WardNumber:      input.WardNumber,
		DepartmentID:    input.DepartmentID,
		OfficeID:        input.OfficeID,
		SubmittedBy:     actor.ID,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		EstimatedBudget: input.EstimatedBudget,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.queries.Insert(ctx, query); err != nil {
		return nil, wrapInternal(err, "Failed to create query")
	}

	officerIDs, err := s.users.ListIDsByRoleAndPanchayat(ctx, models.RolePanchayat, input.PanchayatID)
	if err != nil {
		// Fan-out recipients are best-effort; the query itself is saved.
		s.log.WithError(err).Warn("failed to resolve panchayat officers for fan-out")
		officerIDs = nil
	}

	notifications := make([]models.Notification, 0, len(officerIDs))
	for _, officerID := range officerIDs {
		notifications = append(notifications, models.Notification{
			UserID:    officerID,
			QueryID:   &query.ID,
			Type:      models.NotifyQueryCreated,
			Title:     "New query submitted",
			Message:   fmt.Sprintf("A new query %q was submitted in your panchayat", query.Title),
			Metadata:  map[string]string{"queryId": query.ID.Hex()},
			CreatedAt: time.Now(),
		})
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditQueryCreated,
			fmt.Sprintf("query %q created", query.Title),
			actor,
			map[string]string{"queryId": query.ID.Hex()}),
		Notifications: notifications,
	})

	return query, nil
}

// TransitionInput carries an actor-requested status change.
type TransitionInput struct {
	NewStatus   models.QueryStatus
	Note        string
	BudgetDelta *float64
}

// TransitionStatus moves a query to a new status. Exactly one QueryUpdate
// row is written in the same transaction as the status change.
func (s *Lifecycle) TransitionStatus(ctx context.Context, actor Actor, queryID primitive.ObjectID, input TransitionInput) (*models.Query, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}

	if err := CanTransition(query.Status, input.NewStatus, actor.Role); err != nil {
		return nil, err
	}
	if err := canActOnPanchayat(actor, query.PanchayatID); err != nil {
		return nil, err
	}
	if err := ValidateTransitionNote(input.NewStatus, input.Note); err != nil {
		return nil, err
	}

	now := time.Now()
	update := &models.QueryUpdate{
		QueryID:     query.ID,
		FromStatus:  query.Status,
		ToStatus:    input.NewStatus,
		Note:        input.Note,
		BudgetDelta: input.BudgetDelta,
		ActorID:     actor.ID,
		CreatedAt:   now,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// SetStatus is guarded on the validated prior status, so a racing
		// transition surfaces as ErrConflict instead of committing a move
		// that was never validated.
		if err := s.queries.SetStatus(ctx, query.ID, query.Status, input.NewStatus, now); err != nil {
			return err
		}
		return s.updates.Insert(ctx, update)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, E(CodeNotFound, "Query not found")
		case errors.Is(err, repository.ErrConflict):
			return nil, E(CodeConflict, "Query status was changed by someone else, please retry")
		}
		return nil, wrapInternal(err, "Failed to update query status")
	}

	from := query.Status
	query.Status = input.NewStatus
	query.UpdatedAt = now

	s.bus.Publish(s.transitionEvent(actor, query, from, input))

	return query, nil
}

func (s *Lifecycle) transitionEvent(actor Actor, query *models.Query, from models.QueryStatus, input TransitionInput) Event {
	metadata := map[string]string{
		"queryId": query.ID.Hex(),
		"from":    string(from),
		"to":      string(input.NewStatus),
	}

	var notifications []models.Notification
	switch {
	case input.NewStatus == models.StatusDeclined:
		notifications = append(notifications, models.Notification{
			UserID:    query.SubmittedBy,
			QueryID:   &query.ID,
			Type:      models.NotifyQueryDeclined,
			Title:     "Query declined",
			Message:   fmt.Sprintf("Your query %q was declined: %s", query.Title, input.Note),
			Metadata:  metadata,
			CreatedAt: time.Now(),
		})
	case actor.ID != query.SubmittedBy:
		notifications = append(notifications, models.Notification{
			UserID:    query.SubmittedBy,
			QueryID:   &query.ID,
			Type:      models.NotifyStatusUpdated,
			Title:     "Query status updated",
			Message:   fmt.Sprintf("Your query %q is now %s", query.Title, input.NewStatus),
			Metadata:  metadata,
			CreatedAt: time.Now(),
		})
	}

	return Event{
		Audit: newAudit(models.AuditStatusChanged,
			fmt.Sprintf("query moved from %s to %s", from, input.NewStatus),
			actor, metadata),
		Notifications: notifications,
	}
}

// UpdateQueryInput carries the submitter-editable fields. Nil leaves the
// field unchanged.
type UpdateQueryInput struct {
	Title           *string
	Description     *string
	WardNumber      *int
	Latitude        *float64
	Longitude       *float64
	EstimatedBudget *float64
}

// UpdateQuery lets the submitter amend a query's details while it is still
// PENDING_REVIEW. Status never changes here; that goes through
// TransitionStatus.
func (s *Lifecycle) UpdateQuery(ctx context.Context, actor Actor, queryID primitive.ObjectID, input UpdateQueryInput) (*models.Query, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, E(CodeValidation, "title cannot be empty")
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return nil, E(CodeValidation, "description cannot be empty")
	}

	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if actor.ID != query.SubmittedBy {
		return nil, E(CodeForbidden, "only the query's submitter may edit it")
	}
	if query.Status != models.StatusPendingReview {
		return nil, Ef(CodeInvalidStatus, "a query can only be edited while %s, not %s", models.StatusPendingReview, query.Status)
	}

	details := repository.QueryDetailsUpdate{
		Title:           input.Title,
		Description:     input.Description,
		WardNumber:      input.WardNumber,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		EstimatedBudget: input.EstimatedBudget,
	}
	// Guarded on PENDING_REVIEW so an edit racing a review decision loses.
	if err := s.queries.UpdateDetails(ctx, query.ID, models.StatusPendingReview, details); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, E(CodeNotFound, "Query not found")
		case errors.Is(err, repository.ErrConflict):
			return nil, E(CodeConflict, "Query was reviewed while you were editing it")
		}
		return nil, wrapInternal(err, "Failed to update query")
	}

	if input.Title != nil {
		query.Title = *input.Title
	}
	if input.Description != nil {
		query.Description = *input.Description
	}
	if input.WardNumber != nil {
		query.WardNumber = *input.WardNumber
	}
	if input.Latitude != nil {
		query.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		query.Longitude = input.Longitude
	}
	if input.EstimatedBudget != nil {
		query.EstimatedBudget = input.EstimatedBudget
	}
	query.UpdatedAt = time.Now()

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditQueryEdited,
			fmt.Sprintf("query %q edited by its submitter", query.Title),
			actor,
			map[string]string{"queryId": query.ID.Hex()}),
	})

	return query, nil
}

// DeleteQuery removes the submitter's own query together with its transition
// log, assignments, per-query ratings and engagement rows, all in one
// transaction.
func (s *Lifecycle) DeleteQuery(ctx context.Context, actor Actor, queryID primitive.ObjectID) error {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return err
	}
	if actor.ID != query.SubmittedBy {
		return E(CodeForbidden, "only the query's submitter may delete it")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.engagement.DeleteByQuery(ctx, query.ID); err != nil {
			return err
		}
		if err := s.ratings.DeleteByQuery(ctx, query.ID); err != nil {
			return err
		}
		if err := s.assignments.DeleteByQuery(ctx, query.ID); err != nil {
			return err
		}
		if err := s.updates.DeleteByQuery(ctx, query.ID); err != nil {
			return err
		}
		return s.queries.Delete(ctx, query.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(CodeNotFound, "Query not found")
		}
		return wrapInternal(err, "Failed to delete query")
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditQueryDeleted,
			fmt.Sprintf("query %q deleted by its submitter", query.Title),
			actor,
			map[string]string{"queryId": query.ID.Hex()}),
	})

	return nil
}

func (s *Lifecycle) loadQuery(ctx context.Context, queryID primitive.ObjectID) (*models.Query, error) {
	query, err := s.queries.FindByID(ctx, queryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(CodeNotFound, "Query not found")
		}
		return nil, wrapInternal(err, "Failed to retrieve query")
	}
	return query, nil
}
