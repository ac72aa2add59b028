package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxComplaintAttachments = 5
	maxAttachmentSize       = 10 * 1024 * 1024
)

var complaintTransitions = map[models.ComplaintStatus][]models.ComplaintStatus{
	models.ComplaintOpen:        {models.ComplaintUnderReview, models.ComplaintResolved, models.ComplaintClosed},
	models.ComplaintUnderReview: {models.ComplaintResolved, models.ComplaintClosed},
	models.ComplaintResolved:    {models.ComplaintClosed},
}

// ComplaintService runs the grievance lifecycle, separate from the query
// lifecycle but able to reference a declined query.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	queries    repository.QueryRepository
	users      repository.UserRepository
	bus        Publisher
	log        *logrus.Logger
}

func NewComplaintService(
	complaints repository.ComplaintRepository,
	queries repository.QueryRepository,
	users repository.UserRepository,
	bus Publisher,
	log *logrus.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		queries:    queries,
		users:      users,
		bus:        bus,
		log:        log,
	}
}

// FileComplaintInput carries a new grievance.
type FileComplaintInput struct {
	Subject     string
	Description string
	QueryID     *primitive.ObjectID
	Attachments []models.Attachment
}

// File records a complaint in OPEN and notifies every admin. A linked query
// must exist, be DECLINED, and belong to the filer.
func (s *ComplaintService) File(ctx context.Context, actor Actor, input FileComplaintInput) (*models.Complaint, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, E(CodeValidation, "subject is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, E(CodeValidation, "description is required")
	}
	if err := validateAttachments(input.Attachments); err != nil {
		return nil, err
	}

	if input.QueryID != nil {
		query, err := s.queries.FindByID(ctx, *input.QueryID)
		if err != nil {
			return nil, E(CodeInvalidReference, "linked query not found")
		}
		if query.SubmittedBy != actor.ID {
			return nil, E(CodeForbidden, "only the query's submitter may file a complaint about it")
		}
		if query.Status != models.StatusDeclined {
			return nil, E(CodeInvalidReference, "complaints may only reference a declined query")
		}
	}

	now := time.Now()
	complaint := &models.Complaint{
		SubmittedBy: actor.ID,
		Subject:     input.Subject,
		Description: input.Description,
		Status:      models.ComplaintOpen,
		QueryID:     input.QueryID,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.complaints.Insert(ctx, complaint); err != nil {
		return nil, wrapInternal(err, "Failed to file complaint")
	}

	adminIDs, err := s.users.ListIDsByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.log.WithError(err).Warn("failed to resolve admins for complaint fan-out")
		adminIDs = nil
	}

	notifications := make([]models.Notification, 0, len(adminIDs))
	for _, adminID := range adminIDs {
		notifications = append(notifications, models.Notification{
			UserID:    adminID,
			QueryID:   input.QueryID,
			Type:      models.NotifyComplaintFiled,
			Title:     "New complaint filed",
			Message:   fmt.Sprintf("Complaint %q was filed", complaint.Subject),
			Metadata:  map[string]string{"complaintId": complaint.ID.Hex()},
			CreatedAt: time.Now(),
		})
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditComplaintFiled,
			fmt.Sprintf("complaint %q filed", complaint.Subject),
			actor,
			map[string]string{"complaintId": complaint.ID.Hex()}),
		Notifications: notifications,
	})

	return complaint, nil
}

// ListMine returns the user's own complaints, newest first.
func (s *ComplaintService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Complaint, error) {
	result, err := s.complaints.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapInternal(err, "Failed to retrieve complaints")
	}
	return result, nil
}

// Transition moves a complaint to a new status. Admin only; RESOLVED
// requires a resolution note.
func (s *ComplaintService) Transition(ctx context.Context, actor Actor, complaintID primitive.ObjectID, newStatus models.ComplaintStatus, resolutionNote string) (*models.Complaint, error) {
	if !newStatus.IsValid() {
		return nil, Ef(CodeInvalidStatus, "unknown complaint status %q", string(newStatus))
	}
	if actor.Role != models.RoleAdmin {
		return nil, E(CodeForbidden, "only admins may update complaint status")
	}

	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, E(CodeNotFound, "Complaint not found")
	}

	allowed := false
	for _, next := range complaintTransitions[complaint.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, Ef(CodeInvalidStatus, "cannot move complaint from %s to %s", complaint.Status, newStatus)
	}
	if newStatus == models.ComplaintResolved && strings.TrimSpace(resolutionNote) == "" {
		return nil, E(CodeValidation, "a resolution note is required when resolving a complaint")
	}

	now := time.Now()
	if err := s.complaints.SetStatus(ctx, complaint.ID, newStatus, resolutionNote, now); err != nil {
		return nil, wrapInternal(err, "Failed to update complaint")
	}

	from := complaint.Status
	complaint.Status = newStatus
	complaint.UpdatedAt = now
	if resolutionNote != "" {
		complaint.ResolutionNote = resolutionNote
	}
	if newStatus == models.ComplaintResolved {
		complaint.ResolvedAt = &now
	}

	s.bus.Publish(Event{
		Audit: newAudit(models.AuditComplaintUpdated,
			fmt.Sprintf("complaint moved from %s to %s", from, newStatus),
			actor,
			map[string]string{
				"complaintId": complaint.ID.Hex(),
				"from":        string(from),
				"to":          string(newStatus),
			}),
		Notifications: []models.Notification{{
			UserID:    complaint.SubmittedBy,
			Type:      models.NotifyStatusUpdated,
			Title:     "Complaint status updated",
			Message:   fmt.Sprintf("Your complaint %q is now %s", complaint.Subject, newStatus),
			Metadata:  map[string]string{"complaintId": complaint.ID.Hex()},
			CreatedAt: time.Now(),
		}},
	})

	return complaint, nil
}

func validateAttachments(attachments []models.Attachment) error {
	if len(attachments) > maxComplaintAttachments {
		return Ef(CodeValidation, "at most %d attachments are allowed", maxComplaintAttachments)
	}
	for i, a := range attachments {
		if !strings.HasPrefix(a.URL, "http://") && !strings.HasPrefix(a.URL, "https://") {
			return Ef(CodeValidation, "attachment %d has an invalid URL", i+1)
		}
		if strings.TrimSpace(a.Filename) == "" {
			return Ef(CodeValidation, "attachment %d is missing a filename", i+1)
		}
		if a.Size <= 0 || a.Size > maxAttachmentSize {
			return Ef(CodeValidation, "attachment %d has an invalid size", i+1)
		}
		if strings.TrimSpace(a.ContentType) == "" {
			return Ef(CodeValidation, "attachment %d is missing a content type", i+1)
		}
	}
	return nil
}
