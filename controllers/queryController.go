package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"gramsync-be/models"
	"gramsync-be/repository"
	"gramsync-be/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QueryController struct {
	lifecycle *service.Lifecycle
	log       *logrus.Logger
}

func NewQueryController(lifecycle *service.Lifecycle, log *logrus.Logger) *QueryController {
	return &QueryController{lifecycle: lifecycle, log: log}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// CreateQuery handles the creation of a new query
func (qc *QueryController) CreateQuery(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input struct {
		Title           string   `json:"title" binding:"required,max=200"`
		Description     string   `json:"description" binding:"required,max=2000"`
		PanchayatID     string   `json:"panchayatId" binding:"required"`
		WardNumber      int      `json:"wardNumber"`
		DepartmentID    *string  `json:"departmentId,omitempty"`
		OfficeID        *string  `json:"officeId,omitempty"`
		Latitude        *float64 `json:"latitude,omitempty"`
		Longitude       *float64 `json:"longitude,omitempty"`
		EstimatedBudget *float64 `json:"estimatedBudget,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	panchayatID, err := primitive.ObjectIDFromHex(input.PanchayatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid panchayat ID"})
		return
	}

	createInput := service.CreateQueryInput{
		Title:           input.Title,
		Description:     input.Description,
		PanchayatID:     panchayatID,
		WardNumber:      input.WardNumber,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		EstimatedBudget: input.EstimatedBudget,
	}
	if createInput.DepartmentID, err = optionalObjectID(input.DepartmentID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}
	if createInput.OfficeID, err = optionalObjectID(input.OfficeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid office ID"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	query, err := qc.lifecycle.CreateQuery(ctx, actor, createInput)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, query)
}

// ListQueries handles retrieving queries with filtering, pagination, and
// viewer engagement flags
func (qc *QueryController) ListQueries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := repository.QueryListFilter{
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "newest"),
		Page:   page,
		Limit:  limit,
	}

	if status := c.Query("status"); status != "" && status != "all" {
		filter.Status = models.QueryStatus(status)
	}
	if panchayat := c.Query("panchayat"); panchayat != "" {
		panchayatID, err := primitive.ObjectIDFromHex(panchayat)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid panchayat ID"})
			return
		}
		filter.PanchayatID = &panchayatID
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := qc.lifecycle.ListQueries(ctx, filter, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuery retrieves one query with assignments, history and viewer flags
func (qc *QueryController) GetQuery(c *gin.Context) {
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	view, err := qc.lifecycle.GetQuery(ctx, queryID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// MyQueries retrieves all queries submitted by the authenticated user
func (qc *QueryController) MyQueries(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	queries, err := qc.lifecycle.MyQueries(ctx, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, queries)
}

// RecentQueries returns the most recent geotagged queries for the map view
func (qc *QueryController) RecentQueries(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	queries, err := qc.lifecycle.RecentGeotagged(ctx, 19)
	if err != nil {
		respondError(c, err)
		return
	}

	type queryPin struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Latitude   float64   `json:"latitude"`
		Longitude  float64   `json:"longitude"`
		WardNumber int       `json:"wardNumber"`
		Status     string    `json:"status"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	pins := make([]queryPin, 0, len(queries))
	for _, q := range queries {
		if q.Latitude == nil || q.Longitude == nil {
			continue
		}
		pins = append(pins, queryPin{
			ID:         q.ID.Hex(),
			Title:      q.Title,
			Latitude:   *q.Latitude,
			Longitude:  *q.Longitude,
			WardNumber: q.WardNumber,
			Status:     string(q.Status),
			CreatedAt:  q.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, pins)
}

// GetAnalytics returns analytical data about queries
func (qc *QueryController) GetAnalytics(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	analytics, err := qc.lifecycle.GetAnalytics(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// UpdateQuery allows the submitter of a query to update its details while it
// is still pending review
func (qc *QueryController) UpdateQuery(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Title           *string  `json:"title,omitempty"`
		Description     *string  `json:"description,omitempty"`
		WardNumber      *int     `json:"wardNumber,omitempty"`
		Latitude        *float64 `json:"latitude,omitempty"`
		Longitude       *float64 `json:"longitude,omitempty"`
		EstimatedBudget *float64 `json:"estimatedBudget,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	query, err := qc.lifecycle.UpdateQuery(ctx, actor, queryID, service.UpdateQueryInput{
		Title:           input.Title,
		Description:     input.Description,
		WardNumber:      input.WardNumber,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		EstimatedBudget: input.EstimatedBudget,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, query)
}

// DeleteQuery allows the submitter of a query to delete it
func (qc *QueryController) DeleteQuery(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := qc.lifecycle.DeleteQuery(ctx, actor, queryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Query deleted successfully"})
}

// UpdateStatus moves a query through the lifecycle (panchayat/admin only)
func (qc *QueryController) UpdateStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status      string   `json:"status" binding:"required"`
		Note        string   `json:"note"`
		BudgetDelta *float64 `json:"budgetDelta,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	query, err := qc.lifecycle.TransitionStatus(ctx, actor, queryID, service.TransitionInput{
		NewStatus:   models.QueryStatus(input.Status),
		Note:        input.Note,
		BudgetDelta: input.BudgetDelta,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, query)
}

// AssignQuery replaces the query's office/NGO assignment set
func (qc *QueryController) AssignQuery(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		OfficeIDs []string `json:"officeIds"`
		NgoIDs    []string `json:"ngoIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officeIDs, err := parseObjectIDs(input.OfficeIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid office ID"})
		return
	}
	ngoIDs, err := parseObjectIDs(input.NgoIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid NGO ID"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := qc.lifecycle.Assign(ctx, actor, queryID, officeIDs, ngoIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitRatings records the submitter's ratings for a resolved query
func (qc *QueryController) SubmitRatings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Ratings []struct {
			OfficeID *string `json:"officeId,omitempty"`
			NgoID    *string `json:"ngoId,omitempty"`
			Rating   int     `json:"rating" binding:"required,min=1,max=5"`
			Comment  string  `json:"comment,omitempty"`
		} `json:"ratings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]service.RatingEntry, 0, len(input.Ratings))
	for _, r := range input.Ratings {
		entry := service.RatingEntry{Rating: r.Rating, Comment: r.Comment}
		var err error
		if entry.OfficeID, err = optionalObjectID(r.OfficeID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid office ID"})
			return
		}
		if entry.NgoID, err = optionalObjectID(r.NgoID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid NGO ID"})
			return
		}
		entries = append(entries, entry)
	}

	ctx, cancel := requestContext()
	defer cancel()

	ratings, err := qc.lifecycle.SubmitRatings(ctx, actor, queryID, entries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ratings": ratings})
}

// ToggleLike sets the caller's like on a query
func (qc *QueryController) ToggleLike(c *gin.Context) {
	qc.toggle(c, qc.lifecycle.ToggleLike)
}

// ToggleUpvote sets the caller's upvote on a query
func (qc *QueryController) ToggleUpvote(c *gin.Context) {
	qc.toggle(c, qc.lifecycle.ToggleUpvote)
}

func (qc *QueryController) toggle(c *gin.Context, fn func(context.Context, service.Actor, primitive.ObjectID, bool) (service.EngagementState, error)) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	state, err := fn(ctx, actor, queryID, *input.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ShareQuery bumps the share counter
func (qc *QueryController) ShareQuery(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	queryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	count, err := qc.lifecycle.IncrementShare(ctx, actor, queryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func viewerID(c *gin.Context) *primitive.ObjectID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userIDStr, ok := userIDVal.(string)
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil
	}
	return &id
}

func optionalObjectID(hex *string) (*primitive.ObjectID, error) {
	if hex == nil || *hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
