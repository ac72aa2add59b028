package service

import (
	"context"
	"testing"

	"gramsync-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedNotification(t *testing.T, repo *fakeNotificationRepo, userID primitive.ObjectID, read bool) models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotifyStatusUpdated,
		Title:   "Query status updated",
		Message: "Your query is now ACCEPTED",
		IsRead:  read,
	}
	require.NoError(t, repo.Insert(context.Background(), n))
	return *n
}

func TestNotificationList(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	user := newID()
	other := newID()
	seedNotification(t, repo, user, false)
	seedNotification(t, repo, user, true)
	seedNotification(t, repo, other, false)

	all, err := svc.List(ctx, user, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := svc.List(ctx, user, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	user := newID()
	n := seedNotification(t, repo, user, false)

	require.NoError(t, svc.MarkRead(ctx, n.ID, user))

	unread, err := svc.List(ctx, user, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.List(ctx, user, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)
	assert.NotNil(t, all[0].ReadAt)
}

func TestNotificationMarkReadOwnership(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	owner := newID()
	n := seedNotification(t, repo, owner, false)

	// Another user can't read-mark it, and can't probe its existence.
	err := svc.MarkRead(ctx, n.ID, newID())
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	err = svc.MarkRead(ctx, newID(), owner)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestNotificationMarkAllRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	user := newID()
	seedNotification(t, repo, user, false)
	seedNotification(t, repo, user, false)
	seedNotification(t, repo, user, true)
	seedNotification(t, repo, newID(), false)

	count, err := svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	unread, err := svc.List(ctx, user, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Idempotent: a second pass touches nothing.
	count, err = svc.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
