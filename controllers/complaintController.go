package controllers

import (
	"net/http"

	"gramsync-be/models"
	"gramsync-be/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ComplaintController struct {
	complaints *service.ComplaintService
	log        *logrus.Logger
}

func NewComplaintController(complaints *service.ComplaintService, log *logrus.Logger) *ComplaintController {
	return &ComplaintController{complaints: complaints, log: log}
}

// FileComplaint records a new grievance, optionally linked to a declined query
func (cc *ComplaintController) FileComplaint(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input struct {
		Subject     string              `json:"subject" binding:"required,max=200"`
		Description string              `json:"description" binding:"required,max=2000"`
		QueryID     *string             `json:"queryId,omitempty"`
		Attachments []models.Attachment `json:"attachments,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	queryID, err := optionalObjectID(input.QueryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query ID"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	complaint, err := cc.complaints.File(ctx, actor, service.FileComplaintInput{
		Subject:     input.Subject,
		Description: input.Description,
		QueryID:     queryID,
		Attachments: input.Attachments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// MyComplaints lists the caller's complaints
func (cc *ComplaintController) MyComplaints(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	complaints, err := cc.complaints.ListMine(ctx, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

// UpdateStatus moves a complaint through its lifecycle (admin only)
func (cc *ComplaintController) UpdateStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	complaintID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status         string `json:"status" binding:"required"`
		ResolutionNote string `json:"resolutionNote"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	complaint, err := cc.complaints.Transition(ctx, actor, complaintID, models.ComplaintStatus(input.Status), input.ResolutionNote)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}
