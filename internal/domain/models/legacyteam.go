// internal/domain/models/legacyteam.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyTeam is a team document as stored by the previous version of the
// app. It is only read by the team import job.
type LegacyTeam struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Image       string               `bson:"image"`
	Creator     primitive.ObjectID   `bson:"creator"`
	Members     []primitive.ObjectID `bson:"members"`
	Events      []primitive.ObjectID `bson:"events"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}
