package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryOfficeAssignment binds a query to the office responsible for it
type QueryOfficeAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID    primitive.ObjectID `bson:"queryId" json:"queryId"`
	OfficeID   primitive.ObjectID `bson:"officeId" json:"officeId"`
	AssignedBy primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// QueryNgoAssignment binds a query to an NGO assisting with it
type QueryNgoAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QueryID    primitive.ObjectID `bson:"queryId" json:"queryId"`
	NgoID      primitive.ObjectID `bson:"ngoId" json:"ngoId"`
	AssignedBy primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
