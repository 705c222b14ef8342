package petition

import (
	"fmt"

	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome is what the caller of Decide must do with the petition.
type Outcome int

const (
	// Commit moves the petition to Decision.State and applies Decision.Plan.
	Commit Outcome = iota
	// AlreadyAnswered leaves everything alone; the petition is not pending.
	AlreadyAnswered
	// Discard deletes the petition; it can no longer be acted upon.
	Discard
	// Forbidden leaves everything alone; the caller may not answer.
	Forbidden
	// InvalidState leaves everything alone; the desired state is unknown.
	InvalidState
)

func (o Outcome) String() string {
	switch o {
	case Commit:
		return "commit"
	case AlreadyAnswered:
		return "already-answered"
	case Discard:
		return "discard"
	case Forbidden:
		return "forbidden"
	case InvalidState:
		return "invalid-state"
	}
	return "unknown"
}

// Entity is the part of a team, event or user that Decide looks at.
// List is the entity's list named by the kind (TargetField for the target).
type Entity struct {
	ID       primitive.ObjectID
	Managers []primitive.ObjectID
	List     []primitive.ObjectID
}

// Facts is everything Decide needs. A nil Target or Party means the
// document no longer exists.
type Facts struct {
	Kind     Kind
	Petition models.Petition
	Desired  string
	Caller   authz.Caller
	Target   *Entity
	Party    *Entity
}

// Update adds Ref to the Field list of the document ID in Collection.
type Update struct {
	Collection string
	ID         primitive.ObjectID
	Field      string
	Ref        primitive.ObjectID
}

// Plan is the pair of membership updates an accepted petition applies.
// Target is applied before Party.
type Plan struct {
	Target Update
	Party  Update
}

// Decision is the result of Decide.
type Decision struct {
	Outcome Outcome
	// Message is the text returned to the client. Empty for Commit.
	Message string
	// State is the new petition state when Outcome is Commit.
	State string
	// Plan is set when State is accepted.
	Plan *Plan
}

// Decide applies the petition rules to f. It performs no I/O.
//
// Checks run in a fixed order: pending state, target exists, party exists,
// relationship not already in place, caller authorized, desired state valid.
func Decide(f Facts) Decision {
	k := f.Kind
	p := f.Petition
	partyID := k.PartyID(p)

	if p.State != models.PetitionPending {
		return Decision{Outcome: AlreadyAnswered, Message: "Is already " + p.State}
	}

	if f.Target == nil {
		return Decision{Outcome: Discard, Message: k.Target.title() + " is already removed. This petition is being removed"}
	}

	if f.Party == nil {
		return Decision{Outcome: Discard, Message: partyRemovedMessage(k, partyID)}
	}

	if authz.Contains(f.Target.List, partyID) {
		return Decision{Outcome: Discard, Message: conflictMessage(k, partyID, f.Caller.ID)}
	}

	if !authorized(f) {
		return Decision{Outcome: Forbidden, Message: "Forbidden action"}
	}

	switch f.Desired {
	case models.PetitionAccepted:
		return Decision{Outcome: Commit, State: f.Desired, Plan: &Plan{
			Target: Update{Collection: k.Target.Collection(), ID: f.Target.ID, Field: k.TargetField(), Ref: partyID},
			Party:  Update{Collection: k.Party.Collection(), ID: partyID, Field: k.PartyField(), Ref: f.Target.ID},
		}}
	case models.PetitionRejected:
		return Decision{Outcome: Commit, State: f.Desired}
	}
	return Decision{Outcome: InvalidState, Message: "Invalid type of state"}
}

func authorized(f Facts) bool {
	k := f.Kind
	if k.Action == Request {
		return authz.CanAct(f.Caller, authz.Subject{ID: f.Target.ID, Managers: f.Target.Managers}, authz.Manager)
	}
	if k.Party == User {
		return authz.CanAct(f.Caller, authz.Subject{ID: f.Petition.ReceiverID}, authz.Owner)
	}
	return authz.CanAct(f.Caller, authz.Subject{ID: f.Party.ID, Managers: f.Party.Managers}, authz.Manager)
}

func partyRemovedMessage(k Kind, partyID primitive.ObjectID) string {
	if k.Action == Invite && k.Party == Team {
		return "Team is already removed. This petition is being removed"
	}
	return fmt.Sprintf("%s %s is already removed. This petition is being removed", k.Party.title(), partyID.Hex())
}

func conflictMessage(k Kind, partyID, callerID primitive.ObjectID) string {
	if k.Party == User && partyID == callerID {
		return "You already are " + k.relation() + ". This petition is being removed"
	}
	return fmt.Sprintf("%s %s is already %s. This petition is being removed", k.Party.title(), partyID.Hex(), k.relation())
}
