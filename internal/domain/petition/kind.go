// Package petition decides what answering a petition does.
//
// A petition type such as "request-team-event" is parsed into a Kind
// (action, party, target). Every kind runs through the same Decide
// template; the kind only selects which ids and list fields take part.
package petition

import (
	"fmt"
	"strings"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is how the petition was started.
type Action string

const (
	Invite  Action = "invite"
	Request Action = "request"
)

// EntityType names the kind of document on either side of a petition.
type EntityType string

const (
	User  EntityType = "user"
	Team  EntityType = "team"
	Event EntityType = "event"
)

// Collection returns the collection that stores entities of this type.
func (t EntityType) Collection() string {
	return string(t) + "s"
}

// Kind is the parsed form of a petition type.
//
// Party is the entity joining; Target is the team or event being joined.
// For invites the party is the receiver, for requests it is the sender.
type Kind struct {
	Action Action
	Party  EntityType
	Target EntityType
}

// ParseType parses one of the six petition type strings.
func ParseType(s string) (Kind, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Kind{}, fmt.Errorf("petition: unknown type %q", s)
	}
	k := Kind{Action: Action(parts[0]), Party: EntityType(parts[1]), Target: EntityType(parts[2])}
	if !k.valid() {
		return Kind{}, fmt.Errorf("petition: unknown type %q", s)
	}
	return k, nil
}

// Types lists every valid petition type string.
func Types() []string {
	var out []string
	for _, a := range []Action{Invite, Request} {
		for _, pt := range [][2]EntityType{{User, Team}, {Team, Event}, {User, Event}} {
			out = append(out, Kind{Action: a, Party: pt[0], Target: pt[1]}.String())
		}
	}
	return out
}

func (k Kind) valid() bool {
	if k.Action != Invite && k.Action != Request {
		return false
	}
	switch {
	case k.Party == User && k.Target == Team,
		k.Party == Team && k.Target == Event,
		k.Party == User && k.Target == Event:
		return true
	}
	return false
}

// String returns the stored type string, e.g. "invite-user-team".
func (k Kind) String() string {
	return string(k.Action) + "-" + string(k.Party) + "-" + string(k.Target)
}

// PartyID returns the id of the entity joining the target.
func (k Kind) PartyID(p models.Petition) primitive.ObjectID {
	if k.Action == Invite {
		return p.ReceiverID
	}
	return p.SenderID
}

// TargetField is the list on the target that gains the party id.
func (k Kind) TargetField() string {
	switch {
	case k.Target == Team:
		return "members"
	case k.Party == Team:
		return "teams"
	default:
		return "participants"
	}
}

// PartyField is the list on the party that gains the target id.
func (k Kind) PartyField() string {
	return k.Target.Collection()
}

// relation is the word used in conflict messages.
func (k Kind) relation() string {
	if k.Target == Team {
		return "a member of the team"
	}
	return "a participant of the event"
}

func (t EntityType) title() string {
	switch t {
	case User:
		return "User"
	case Team:
		return "Team"
	}
	return "Event"
}
