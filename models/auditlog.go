package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action tags
const (
	AuditQueryCreated     = "QUERY_CREATED"
	AuditQueryEdited      = "QUERY_EDITED"
	AuditQueryDeleted     = "QUERY_DELETED"
	AuditStatusChanged    = "STATUS_CHANGED"
	AuditQueryAssigned    = "QUERY_ASSIGNED"
	AuditRatingsSubmitted = "RATINGS_SUBMITTED"
	AuditQueryLiked       = "QUERY_LIKED"
	AuditQueryUpvoted     = "QUERY_UPVOTED"
	AuditQueryShared      = "QUERY_SHARED"
	AuditComplaintFiled   = "COMPLAINT_FILED"
	AuditComplaintUpdated = "COMPLAINT_UPDATED"
)

// AuditLog is an immutable compliance record. The core only ever appends;
// it is read externally for reporting.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"eventId" json:"eventId"`
	Action    string             `bson:"action" json:"action"`
	Details   string             `bson:"details" json:"details"`
	ActorID   primitive.ObjectID `bson:"actorId" json:"actorId"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
