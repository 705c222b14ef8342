package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active, non-admin user with the given username.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUserWith(ctx, models.User{Username: username})
}

// CreateUserWith inserts u after filling in ID, list fields and timestamps.
func (f *Fixtures) CreateUserWith(ctx context.Context, u models.User) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Teams == nil {
		u.Teams = []primitive.ObjectID{}
	}
	if u.Events == nil {
		u.Events = []primitive.ObjectID{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTeam creates a team managed by the given managers.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, managers ...primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	if managers == nil {
		managers = []primitive.ObjectID{}
	}
	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Managers:  managers,
		Members:   []primitive.ObjectID{},
		Events:    []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// CreateEvent inserts e after filling in ID, list fields and timestamps.
func (f *Fixtures) CreateEvent(ctx context.Context, e models.Event) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Managers == nil {
		e.Managers = []primitive.ObjectID{}
	}
	if e.Participants == nil {
		e.Participants = []primitive.ObjectID{}
	}
	if e.Teams == nil {
		e.Teams = []primitive.ObjectID{}
	}
	if e.EndDate.IsZero() {
		e.EndDate = now.Add(24 * time.Hour)
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreatePetition creates a pending petition of the given type.
func (f *Fixtures) CreatePetition(ctx context.Context, typ string, sender, receiver, entity primitive.ObjectID) models.Petition {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Petition{
		ID:         primitive.NewObjectID(),
		Type:       typ,
		State:      models.PetitionPending,
		SenderID:   sender,
		ReceiverID: receiver,
		EntityID:   entity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("petitions").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test petition: %v", err)
	}
	return p
}
