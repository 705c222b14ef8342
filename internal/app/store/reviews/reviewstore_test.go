package reviewstore_test

import (
	"testing"

	reviewstore "github.com/dalemusser/gatherhub/internal/app/store/reviews"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CountByTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, id := range []primitive.ObjectID{team, team, team, other} {
		if _, err := store.Create(ctx, models.Review{Team: id, Rating: 4}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.CountByTeam(ctx, team)
	if err != nil {
		t.Fatalf("CountByTeam failed: %v", err)
	}
	if n != 3 {
		t.Errorf("CountByTeam: got %d, want 3", n)
	}

	n, _ = store.CountByTeam(ctx, primitive.NewObjectID())
	if n != 0 {
		t.Errorf("CountByTeam(unknown): got %d, want 0", n)
	}
}
