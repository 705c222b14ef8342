package teamimport

import (
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxNameRunes        = 35
	MaxDescriptionRunes = 300

	// defaultImage marks legacy teams that never uploaded an avatar.
	defaultImage = "icon_team.png"
)

// Transform maps a legacy team onto the current schema. It reports false
// for legacy teams without a name, which are not imported.
//
// The creator becomes the only manager and is removed from the members.
// Name and description are cut to the current limits and otherwise stored
// as they were. The avatar is left empty; see NeedsAvatar.
func Transform(old models.LegacyTeam) (models.Team, bool) {
	if old.Name == "" {
		return models.Team{}, false
	}

	members := make([]primitive.ObjectID, 0, len(old.Members))
	for _, m := range old.Members {
		if m != old.Creator {
			members = append(members, m)
		}
	}
	events := old.Events
	if events == nil {
		events = []primitive.ObjectID{}
	}

	return models.Team{
		ID:          old.ID,
		Name:        truncate(old.Name, MaxNameRunes),
		Description: truncate(old.Description, MaxDescriptionRunes),
		Managers:    []primitive.ObjectID{old.Creator},
		Members:     members,
		Events:      events,
		CreatedAt:   old.CreatedAt,
		UpdatedAt:   old.UpdatedAt,
	}, true
}

// NeedsAvatar reports whether image points at a custom avatar worth copying.
func NeedsAvatar(image string) bool {
	return image != "" && !strings.Contains(image, defaultImage)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
