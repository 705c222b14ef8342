// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the acting user as seen by authorization checks.
type Caller struct {
	ID        primitive.ObjectID
	IsAdmin   bool
	IsBlocked bool
}

// Subject is the entity a caller wants to act on. For identity-gated
// actions ID is the designated receiver; for manager-gated actions Managers
// is the entity's manager list.
type Subject struct {
	ID           primitive.ObjectID
	Managers     []primitive.ObjectID
	Participants []primitive.ObjectID
}

// CallerCtx returns the caller of the request and a found flag.
// A missing user or a malformed id yields ok=false, so callers can trust
// that ok=true means a valid ObjectID.
func CallerCtx(r *http.Request) (Caller, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return Caller{}, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return Caller{}, false
	}
	return Caller{ID: id, IsAdmin: user.IsAdmin, IsBlocked: user.IsBlocked}, true
}

// CanAct reports whether c may act on s in the given role.
// A blocked caller can never act.
func CanAct(c Caller, s Subject, role Role) bool {
	if c.IsBlocked || c.ID.IsZero() {
		return false
	}
	switch role {
	case Owner:
		return c.ID == s.ID
	case Manager:
		return c.IsAdmin || Contains(s.Managers, c.ID)
	case Participant:
		return Contains(s.Participants, c.ID) || Contains(s.Managers, c.ID)
	}
	return false
}

// Contains reports whether id is in ids.
func Contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
