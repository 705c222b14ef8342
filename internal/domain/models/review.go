// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is written by a user about a team's part in an event.
type Review struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Team      primitive.ObjectID `bson:"team" json:"team"`
	Event     primitive.ObjectID `bson:"event,omitempty" json:"event,omitempty"`
	Author    primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
