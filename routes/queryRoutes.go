package routes

import (
	"gramsync-be/controllers"
	"gramsync-be/middlewares"

	"github.com/gin-gonic/gin"
)

// QueryRoutes sets up the query lifecycle routes
func QueryRoutes(r *gin.Engine, qc *controllers.QueryController) {
	query := r.Group("/api/query")
	query.Use(middlewares.AuthMiddleware())
	{
		query.POST("/create", middlewares.QueryRateLimiter(5), qc.CreateQuery)
		query.GET("", qc.ListQueries)
		query.GET("/mine", qc.MyQueries)
		query.GET("/recent", qc.RecentQueries)
		query.GET("/analytics", qc.GetAnalytics)
		query.GET("/:id", qc.GetQuery)
		query.PATCH("/:id", qc.UpdateQuery)
		query.DELETE("/:id", qc.DeleteQuery)
		query.PATCH("/:id/status", qc.UpdateStatus)
		query.PUT("/:id/assign", qc.AssignQuery)
		query.POST("/:id/ratings", qc.SubmitRatings)
		query.POST("/:id/like", qc.ToggleLike)
		query.POST("/:id/upvote", qc.ToggleUpvote)
		query.POST("/:id/share", qc.ShareQuery)
	}
}
