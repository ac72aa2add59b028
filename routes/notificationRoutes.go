package routes

import (
	"gramsync-be/controllers"
	"gramsync-be/middlewares"

	"github.com/gin-gonic/gin"
)

// NotificationRoutes sets up the notification routes
func NotificationRoutes(r *gin.Engine, nc *controllers.NotificationController) {
	notification := r.Group("/api/notifications")
	notification.Use(middlewares.AuthMiddleware())
	{
		notification.GET("", nc.ListNotifications)
		notification.PATCH("/:id/read", nc.MarkRead)
		notification.POST("/read-all", nc.MarkAllRead)
	}
}
