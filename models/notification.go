package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type tags
const (
	NotifyQueryCreated      = "QUERY_CREATED"
	NotifyStatusUpdated     = "STATUS_UPDATED"
	NotifyQueryDeclined     = "QUERY_DECLINED"
	NotifyAssignmentCreated = "ASSIGNMENT_CREATED"
	NotifyComplaintFiled    = "COMPLAINT_FILED"
	NotifyQueryShared       = "QUERY_SHARED"
)

// Notification is a fire-and-forget record for one recipient. Only the
// recipient flips it to read.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	QueryID   *primitive.ObjectID `bson:"queryId,omitempty" json:"queryId,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Metadata  map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead    bool                `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
