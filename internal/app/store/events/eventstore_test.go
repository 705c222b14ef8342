package eventstore_test

import (
	"testing"
	"time"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	end := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Millisecond)
	ev, err := store.Create(ctx, models.Event{
		Name:    "Beach cleanup",
		EndDate: end,
		Photos:  []models.Photo{{URL: "https://s3.amazonaws.com/b/events/photos/p1.jpg"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.EndDate.Equal(end) {
		t.Errorf("EndDate: got %v, want %v", got.EndDate, end)
	}
	if len(got.Photos) != 1 {
		t.Errorf("Photos: got %d, want 1", len(got.Photos))
	}
	if got.Ended(time.Now()) {
		t.Error("event should not have ended yet")
	}

	ok, err := store.Exists(ctx, ev.ID)
	if err != nil || !ok {
		t.Errorf("Exists: got %v, %v; want true", ok, err)
	}

	if err := store.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, ev.ID); err != eventstore.ErrNotFound {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, ev.ID); err != eventstore.ErrNotFound {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_AddRef(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev, err := store.Create(ctx, models.Event{Name: "Meetup"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	uid := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if err := store.AddRef(ctx, ev.ID, eventstore.FieldParticipants, uid); err != nil {
			t.Fatalf("AddRef failed: %v", err)
		}
	}
	got, _ := store.GetByID(ctx, ev.ID)
	if len(got.Participants) != 1 {
		t.Errorf("Participants: got %v, want one entry", got.Participants)
	}

	if err := store.AddRef(ctx, ev.ID, "photos", uid); err == nil {
		t.Error("expected error for non-reference field")
	}
}
