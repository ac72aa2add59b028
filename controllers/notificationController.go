package controllers

import (
	"net/http"

	"gramsync-be/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NotificationController struct {
	notifications *service.NotificationService
	log           *logrus.Logger
}

func NewNotificationController(notifications *service.NotificationService, log *logrus.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, log: log}
}

// ListNotifications returns the caller's notifications, newest first
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"

	ctx, cancel := requestContext()
	defer cancel()

	notifications, err := nc.notifications.List(ctx, actor.ID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead flips one of the caller's notifications to read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	notificationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := nc.notifications.MarkRead(ctx, notificationID, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead flips all of the caller's unread notifications to read
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	count, err := nc.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": count})
}
