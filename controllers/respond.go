package controllers

import (
	"net/http"

	"gramsync-be/models"
	"gramsync-be/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorFromContext rebuilds the authenticated actor from the claims the auth
// middleware stored on the request context.
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return service.Actor{}, false
	}

	userIDStr, _ := userIDVal.(string)
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return service.Actor{}, false
	}

	actor := service.Actor{ID: userID, Role: models.RoleVoter}
	if roleVal, exists := c.Get("role"); exists {
		if roleStr, ok := roleVal.(string); ok && models.Role(roleStr).IsValid() {
			actor.Role = models.Role(roleStr)
		}
	}
	if panchayatVal, exists := c.Get("panchayat_id"); exists {
		if panchayatStr, ok := panchayatVal.(string); ok && panchayatStr != "" {
			if panchayatID, err := primitive.ObjectIDFromHex(panchayatStr); err == nil {
				actor.PanchayatID = panchayatID
			}
		}
	}
	return actor, true
}

// respondError maps a service error to its HTTP status and structured body.
func respondError(c *gin.Context, err error) {
	code := service.CodeOf(err)
	c.JSON(service.HTTPStatus(code), gin.H{
		"code":  code,
		"error": service.MessageOf(err),
	})
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
