package teamimport

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTransform(t *testing.T) {
	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()
	event := primitive.NewObjectID()
	created := time.Date(2017, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)

	old := models.LegacyTeam{
		ID:          primitive.NewObjectID(),
		Name:        strings.Repeat("n", 40),
		Description: "<p>We <b>play</b> &amp; learn &lt;b&gt;</p>" + strings.Repeat("d", 400),
		Creator:     creator,
		Members:     []primitive.ObjectID{creator, member},
		Events:      []primitive.ObjectID{event},
		CreatedAt:   created,
		UpdatedAt:   updated,
	}

	got, ok := Transform(old)
	if !ok {
		t.Fatal("expected team to be imported")
	}
	if got.ID != old.ID {
		t.Error("ID must be kept")
	}
	if got.Name != strings.Repeat("n", MaxNameRunes) {
		t.Errorf("Name = %q", got.Name)
	}
	if !strings.HasPrefix(got.Description, "<p>We <b>play</b> &amp; learn &lt;b&gt;</p>") {
		t.Errorf("Description = %q, expected legacy text kept verbatim", got.Description)
	}
	if n := len([]rune(got.Description)); n != MaxDescriptionRunes {
		t.Errorf("Description has %d runes, want %d", n, MaxDescriptionRunes)
	}
	if len(got.Managers) != 1 || got.Managers[0] != creator {
		t.Errorf("Managers = %v, want [creator]", got.Managers)
	}
	if len(got.Members) != 1 || got.Members[0] != member {
		t.Errorf("Members = %v, want creator removed", got.Members)
	}
	if len(got.Events) != 1 || got.Events[0] != event {
		t.Errorf("Events = %v", got.Events)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Error("timestamps must be kept")
	}
	if got.Avatar != "" {
		t.Error("avatar is set by the runner, not by Transform")
	}
}

func TestTransform_SkipsNameless(t *testing.T) {
	if _, ok := Transform(models.LegacyTeam{ID: primitive.NewObjectID()}); ok {
		t.Error("legacy team without name should be skipped")
	}
}

func TestTransform_ShortFieldsUntouched(t *testing.T) {
	got, ok := Transform(models.LegacyTeam{ID: primitive.NewObjectID(), Name: "Runners", Description: "Sunday runs"})
	if !ok {
		t.Fatal("expected import")
	}
	if got.Name != "Runners" || got.Description != "Sunday runs" {
		t.Errorf("got %q / %q", got.Name, got.Description)
	}
	if got.Members == nil || got.Events == nil {
		t.Error("lists should be empty, not nil")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 5, "abcde"},
		{"multibyte", "ñandú ñandú", 5, "ñandú"},
		{"entities untouched", "a &lt;b&gt; c", 20, "a &lt;b&gt; c"},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestNeedsAvatar(t *testing.T) {
	tests := []struct {
		image string
		want  bool
	}{
		{"", false},
		{"https://old.example.com/img/icon_team.png", false},
		{"https://old.example.com/uploads/team 1.png", true},
	}
	for _, tt := range tests {
		if got := NeedsAvatar(tt.image); got != tt.want {
			t.Errorf("NeedsAvatar(%q) = %v, want %v", tt.image, got, tt.want)
		}
	}
}
