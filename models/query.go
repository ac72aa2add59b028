package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryStatus enum
type QueryStatus string

const (
	StatusPendingReview QueryStatus = "PENDING_REVIEW"
	StatusAccepted      QueryStatus = "ACCEPTED"
	StatusWaitlisted    QueryStatus = "WAITLISTED"
	StatusInProgress    QueryStatus = "IN_PROGRESS"
	StatusResolved      QueryStatus = "RESOLVED"
	StatusClosed        QueryStatus = "CLOSED"
	StatusDeclined      QueryStatus = "DECLINED"
)

// IsValid reports whether the status is one of the known statuses.
func (s QueryStatus) IsValid() bool {
	switch s {
	case StatusPendingReview, StatusAccepted, StatusWaitlisted,
		StatusInProgress, StatusResolved, StatusClosed, StatusDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the query lifecycle.
func (s QueryStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusDeclined
}

// Query represents a citizen-submitted request routed through the lifecycle
type Query struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	Description         string              `bson:"description" json:"description"`
	Status              QueryStatus         `bson:"status" json:"status"`
	PanchayatID         primitive.ObjectID  `bson:"panchayatId" json:"panchayatId"`
	WardNumber          int                 `bson:"wardNumber" json:"wardNumber"`
	DepartmentID        *primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	OfficeID            *primitive.ObjectID `bson:"officeId,omitempty" json:"officeId,omitempty"`
	SubmittedBy         primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	Latitude            *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude           *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	EstimatedBudget     *float64            `bson:"estimatedBudget,omitempty" json:"estimatedBudget,omitempty"`
	SpentBudget         *float64            `bson:"spentBudget,omitempty" json:"spentBudget,omitempty"`
	LikeCount           int64               `bson:"likeCount" json:"likeCount"`
	UpvoteCount         int64               `bson:"upvoteCount" json:"upvoteCount"`
	ShareCount          int64               `bson:"shareCount" json:"shareCount"`
	CommentCount        int64               `bson:"commentCount" json:"commentCount"`
	HasReachedThreshold bool                `bson:"hasReachedThreshold" json:"hasReachedThreshold"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
	AcceptedAt          *time.Time          `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	ResolvedAt          *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ClosedAt            *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}

// QueryUpdate is an append-only record of a single status change.
// Rows are never mutated or deleted.
type QueryUpdate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID     primitive.ObjectID `bson:"queryId" json:"queryId"`
	FromStatus  QueryStatus        `bson:"fromStatus" json:"fromStatus"`
	ToStatus    QueryStatus        `bson:"toStatus" json:"toStatus"`
	Note        string             `bson:"note" json:"note"`
	BudgetDelta *float64           `bson:"budgetDelta,omitempty" json:"budgetDelta,omitempty"`
	ActorID     primitive.ObjectID `bson:"actorId" json:"actorId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
