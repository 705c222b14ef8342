// internal/app/system/authz/roles.go
package authz

// Role is the relationship a caller must have with a subject.
type Role int

const (
	// Owner: the caller is the subject (e.g. the receiver of an invite).
	Owner Role = iota
	// Manager: the caller manages the subject, or is a global admin.
	Manager
	// Participant: the caller takes part in (or manages) the subject.
	Participant
)

func (r Role) String() string {
	switch r {
	case Owner:
		return "owner"
	case Manager:
		return "manager"
	case Participant:
		return "participant"
	}
	return "unknown"
}
