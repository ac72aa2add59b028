package service

import (
	"context"
	"errors"

	"gramsync-be/models"
	"gramsync-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService exposes the recipient-facing notification surface.
// Creation happens only through the fan-out bus.
type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]models.Notification, error) {
	result, err := s.notifications.List(ctx, userID, unreadOnly)
	if err != nil {
		return nil, wrapInternal(err, "Failed to retrieve notifications")
	}
	return result, nil
}

// MarkRead flips one notification to read. Only the recipient may do so;
// anyone else sees NOT_FOUND.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(CodeNotFound, "Notification not found")
		}
		return wrapInternal(err, "Failed to mark notification read")
	}
	return nil
}

// MarkAllRead flips all of the user's unread notifications to read and
// returns how many were affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, wrapInternal(err, "Failed to mark notifications read")
	}
	return count, nil
}
