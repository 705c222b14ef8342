// internal/app/features/users/visibility.go
package users

import (
	"encoding/json"

	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/domain/models"
)

var (
	// adminFields is everything an admin sees.
	adminFields = []string{
		"_id", "avatar", "description", "disabilities", "email", "events",
		"firstName", "gender", "isAdmin", "isArchived", "isBlocked",
		"isSubscribed", "lastName", "phone", "showDisabilities", "showEmail",
		"showPhone", "teams", "username", "zip",
	}

	// selfFields hides the account flags a user cannot change.
	selfFields = []string{
		"_id", "avatar", "description", "disabilities", "email", "events",
		"firstName", "gender", "isSubscribed", "lastName", "phone",
		"showDisabilities", "showEmail", "showPhone", "teams", "username", "zip",
	}

	publicFields = []string{
		"_id", "avatar", "description", "events", "firstName", "lastName",
		"gender", "teams", "username", "zip",
	}
)

// VisibleFields returns the fields of target that viewer may see.
func VisibleFields(viewer authz.Caller, target *models.User) []string {
	if viewer.IsAdmin {
		return adminFields
	}
	if viewer.ID == target.ID {
		return selfFields
	}

	fields := append([]string(nil), publicFields...)
	if target.ShowDisabilities {
		fields = append(fields, "disabilities")
	}
	if target.ShowEmail {
		fields = append(fields, "email")
	}
	if target.ShowPhone {
		fields = append(fields, "phone")
	}
	return fields
}

// Project returns the JSON form of u restricted to fields. Fields that are
// empty and marked omitempty on the model are left out.
func Project(u *models.User, fields []string) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}
