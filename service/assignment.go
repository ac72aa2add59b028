package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignResult reports the size of the assignment set after replacement.
type AssignResult struct {
	OfficeCount int `json:"officeCount"`
	NgoCount    int `json:"ngoCount"`
}

// Assign replaces the query's office/NGO assignment set atomically: all
// existing rows are deleted and the new set inserted in one transaction.
// Empty slices unassign everything. When the prior status was ACCEPTED and
// the new set is non-empty, the query auto-promotes to IN_PROGRESS as part
// of the same transaction.
func (s *Lifecycle) Assign(ctx context.Context, actor Actor, queryID primitive.ObjectID, officeIDs, ngoIDs []primitive.ObjectID) (AssignResult, error) {
	query, err := s.loadQuery(ctx, queryID)
	if err != nil {
		return AssignResult{}, err
	}

	if err := canActOnPanchayat(actor, query.PanchayatID); err != nil {
		return AssignResult{}, err
	}
	if err := CanAssign(query.Status); err != nil {
		return AssignResult{}, err
	}

	now := time.Now()
	offices := make([]models.QueryOfficeAssignment, 0, len(officeIDs))
	for _, officeID := range officeIDs {
		offices = append(offices, models.QueryOfficeAssignment{
			QueryID:    query.ID,
			OfficeID:   officeID,
			AssignedBy: actor.ID,
			CreatedAt:  now,
		})
	}
	ngos := make([]models.QueryNgoAssignment, 0, len(ngoIDs))
	for _, ngoID := range ngoIDs {
		ngos = append(ngos, models.QueryNgoAssignment{
			QueryID:    query.ID,
			NgoID:      ngoID,
			AssignedBy: actor.ID,
			CreatedAt:  now,
		})
	}

	var promoted bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// Re-read and re-check inside the transaction: the pre-check above
		// only produces fast-path errors and can go stale under concurrent
		// transitions.
		current, err := s.queries.FindByID(ctx, query.ID)
		if err != nil {
			return err
		}
		if err := CanAssign(current.Status); err != nil {
			return err
		}
		if err := s.assignments.DeleteByQuery(ctx, query.ID); err != nil {
			return err
		}
		if err := s.assignments.InsertOffices(ctx, offices); err != nil {
			return err
		}
		if err := s.assignments.InsertNgos(ctx, ngos); err != nil {
			return err
		}
		if current.Status == models.StatusAccepted && len(offices)+len(ngos) > 0 {
			// System-triggered promotion, deliberately not routed through
			// CanTransition.
			if err := s.queries.SetStatus(ctx, query.ID, models.StatusAccepted, models.StatusInProgress, now); err != nil {
				return err
			}
			if err := s.updates.Insert(ctx, &models.QueryUpdate{
				QueryID:    query.ID,
				FromStatus: models.StatusAccepted,
				ToStatus:   models.StatusInProgress,
				Note:       "",
				ActorID:    actor.ID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			promoted = true
		}
		return nil
	})
	if err != nil {
		var se *Error
		switch {
		case errors.As(err, &se):
			return AssignResult{}, se
		case errors.Is(err, repository.ErrNotFound):
			return AssignResult{}, E(CodeNotFound, "Query not found")
		case errors.Is(err, repository.ErrConflict):
			return AssignResult{}, E(CodeConflict, "Query status was changed by someone else, please retry")
		}
		return AssignResult{}, wrapInternal(err, "Failed to assign query")
	}

	if promoted {
		query.Status = models.StatusInProgress
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditQueryAssigned,
			fmt.Sprintf("assignment replaced: %d offices, %d NGOs", len(offices), len(ngos)),
			actor,
			map[string]string{
				"queryId":     query.ID.Hex(),
				"officeCount": strconv.Itoa(len(offices)),
				"ngoCount":    strconv.Itoa(len(ngos)),
			}),
		Notifications: []models.Notification{{
			UserID:    query.SubmittedBy,
			QueryID:   &query.ID,
			Type:      models.NotifyAssignmentCreated,
			Title:     "Query assigned",
			Message:   fmt.Sprintf("Your query %q has been assigned for resolution", query.Title),
			Metadata:  map[string]string{"queryId": query.ID.Hex()},
			CreatedAt: time.Now(),
		}},
	})

	return AssignResult{OfficeCount: len(offices), NgoCount: len(ngos)}, nil
}
