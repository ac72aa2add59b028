package routes

import (
	"gramsync-be/controllers"
	"gramsync-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ComplaintRoutes sets up the complaint routes
func ComplaintRoutes(r *gin.Engine, cc *controllers.ComplaintController) {
	complaint := r.Group("/api/complaint")
	complaint.Use(middlewares.AuthMiddleware())
	{
		complaint.POST("", cc.FileComplaint)
		complaint.GET("/mine", cc.MyComplaints)
		complaint.PATCH("/:id/status", cc.UpdateStatus)
	}
}
