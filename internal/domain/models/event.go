// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is an image attached to an event. URL points into object storage.
type Photo struct {
	URL string `bson:"url" json:"url"`
}

// Event is something users and teams take part in.
//
// Reviews is a denormalized count. An event that already ended and has at
// least one review cannot be deleted.
type Event struct {
	ID           primitive.ObjectID   `bson:"_id" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Managers     []primitive.ObjectID `bson:"managers" json:"managers"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Teams        []primitive.ObjectID `bson:"teams" json:"teams"`
	Photos       []Photo              `bson:"photos,omitempty" json:"photos,omitempty"`
	Reviews      int64                `bson:"reviews" json:"reviews"`
	EndDate      time.Time            `bson:"endDate" json:"endDate"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Ended reports whether the event's end date is before now.
func (e Event) Ended(now time.Time) bool {
	return e.EndDate.Before(now)
}
