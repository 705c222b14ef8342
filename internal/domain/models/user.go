// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a person who can manage teams and events or take part in them.
//
// NOTE:
//   - Teams and Events are denormalized membership lists. They must mirror
//     Team.Members and Event.Participants respectively.
//   - The Show* flags opt profile fields into the public view.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username     string               `bson:"username" json:"username"`
	FirstName    string               `bson:"firstName" json:"firstName"`
	LastName     string               `bson:"lastName" json:"lastName"`
	Email        string               `bson:"email" json:"email"`
	Phone        string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar       string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Gender       string               `bson:"gender,omitempty" json:"gender,omitempty"`
	Zip          string               `bson:"zip,omitempty" json:"zip,omitempty"`
	Disabilities []string             `bson:"disabilities,omitempty" json:"disabilities,omitempty"`
	Teams        []primitive.ObjectID `bson:"teams" json:"teams"`
	Events       []primitive.ObjectID `bson:"events" json:"events"`

	ShowDisabilities bool `bson:"showDisabilities" json:"showDisabilities"`
	ShowEmail        bool `bson:"showEmail" json:"showEmail"`
	ShowPhone        bool `bson:"showPhone" json:"showPhone"`
	IsSubscribed     bool `bson:"isSubscribed" json:"isSubscribed"`
	IsArchived       bool `bson:"isArchived" json:"isArchived"`
	IsBlocked        bool `bson:"isBlocked" json:"isBlocked"`
	IsAdmin          bool `bson:"isAdmin" json:"isAdmin"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
