// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team groups users under one or more managers. Teams can take part in events.
type Team struct {
	ID            primitive.ObjectID   `bson:"_id" json:"_id"`
	Name          string               `bson:"name" json:"name"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Avatar        string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Managers      []primitive.ObjectID `bson:"managers" json:"managers"`
	Members       []primitive.ObjectID `bson:"members" json:"members"`
	Events        []primitive.ObjectID `bson:"events" json:"events"`
	ReviewsAmount int64                `bson:"reviewsAmount" json:"reviewsAmount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
