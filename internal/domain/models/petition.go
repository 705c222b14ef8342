// internal/domain/models/petition.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Petition states. A petition leaves PetitionPending exactly once.
const (
	PetitionPending  = "pending"
	PetitionAccepted = "accepted"
	PetitionRejected = "rejected"
)

// Petition is an invite or a request linking a sender, a receiver and the
// team or event it concerns.
//
// Type is one of invite-user-team, invite-team-event, invite-user-event,
// request-user-team, request-team-event, request-user-event.
// Version is bumped on every state change and guards concurrent answers.
type Petition struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Type       string             `bson:"type" json:"type"`
	State      string             `bson:"state" json:"state"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	EntityID   primitive.ObjectID `bson:"entityId" json:"entityId"`
	Version    int64              `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
