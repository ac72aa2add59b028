package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStatus enum
type ComplaintStatus string

const (
	ComplaintOpen        ComplaintStatus = "OPEN"
	ComplaintUnderReview ComplaintStatus = "UNDER_REVIEW"
	ComplaintResolved    ComplaintStatus = "RESOLVED"
	ComplaintClosed      ComplaintStatus = "CLOSED"
)

// IsValid reports whether the status is one of the known complaint statuses.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintOpen, ComplaintUnderReview, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// Attachment is a reference to an externally stored file. The backend never
// holds file bytes.
type Attachment struct {
	URL         string `bson:"url" json:"url"`
	Filename    string `bson:"filename" json:"filename"`
	Size        int64  `bson:"size" json:"size"`
	ContentType string `bson:"contentType" json:"contentType"`
}

// Complaint is an independently filed grievance, optionally linked to a
// declined query.
type Complaint struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SubmittedBy    primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	Subject        string              `bson:"subject" json:"subject"`
	Description    string              `bson:"description" json:"description"`
	Status         ComplaintStatus     `bson:"status" json:"status"`
	QueryID        *primitive.ObjectID `bson:"queryId,omitempty" json:"queryId,omitempty"`
	Attachments    []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ResolutionNote string              `bson:"resolutionNote,omitempty" json:"resolutionNote,omitempty"`
	ResolvedAt     *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
