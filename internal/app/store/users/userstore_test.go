package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_GetActiveByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fixtures.CreateUser(ctx, "alice")
	archived := fixtures.CreateUserWith(ctx, models.User{Username: "bob", IsArchived: true})

	got, err := store.GetActiveByID(ctx, active.ID)
	if err != nil {
		t.Fatalf("GetActiveByID failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username: got %q, want %q", got.Username, "alice")
	}

	if _, err := store.GetActiveByID(ctx, archived.ID); err != userstore.ErrNotFound {
		t.Errorf("archived user: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != userstore.ErrNotFound {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestStore_AddRef_NoDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "carol")
	teamID := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if err := store.AddRef(ctx, u.ID, userstore.FieldTeams, teamID); err != nil {
			t.Fatalf("AddRef #%d failed: %v", i+1, err)
		}
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Teams) != 1 || got.Teams[0] != teamID {
		t.Errorf("Teams: got %v, want [%v]", got.Teams, teamID)
	}

	if err := store.AddRef(ctx, primitive.NewObjectID(), userstore.FieldTeams, teamID); err != userstore.ErrNotFound {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestStore_AddRef_RejectsUnknownField(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddRef(ctx, primitive.NewObjectID(), "isAdmin", primitive.NewObjectID()); err == nil {
		t.Error("expected error for non-list field")
	}
}

func TestStore_PullRefFromMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	eventID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	a := fixtures.CreateUserWith(ctx, models.User{Username: "a", Events: []primitive.ObjectID{eventID, other}})
	b := fixtures.CreateUserWith(ctx, models.User{Username: "b", Events: []primitive.ObjectID{eventID}})

	n, err := store.PullRefFromMany(ctx, []primitive.ObjectID{a.ID, b.ID}, userstore.FieldEvents, eventID)
	if err != nil {
		t.Fatalf("PullRefFromMany failed: %v", err)
	}
	if n != 2 {
		t.Errorf("modified: got %d, want 2", n)
	}

	users, err := store.FindByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("FindByIDs failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("FindByIDs: got %d users, want 2", len(users))
	}
	for _, u := range users {
		for _, e := range u.Events {
			if e == eventID {
				t.Errorf("user %s still lists the event", u.Username)
			}
		}
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	blocked := fixtures.CreateUserWith(ctx, models.User{Username: "dave", IsBlocked: true, IsAdmin: true})
	archived := fixtures.CreateUserWith(ctx, models.User{Username: "erin", IsArchived: true})

	su := fetcher.FetchUser(ctx, blocked.ID.Hex())
	if su == nil {
		t.Fatal("expected blocked user to resolve")
	}
	if !su.IsBlocked || !su.IsAdmin || su.Name != "dave" {
		t.Errorf("unexpected session user: %+v", su)
	}

	if fetcher.FetchUser(ctx, archived.ID.Hex()) != nil {
		t.Error("expected nil for archived user")
	}
	if fetcher.FetchUser(ctx, "not-an-id") != nil {
		t.Error("expected nil for malformed id")
	}
}
