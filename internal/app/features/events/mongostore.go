// internal/app/features/events/mongostore.go
package events

import (
	"context"
	"errors"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	teamstore "github.com/dalemusser/gatherhub/internal/app/store/teams"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore is the Store backed by the application database.
type MongoStore struct {
	users  *userstore.Store
	teams  *teamstore.Store
	events *eventstore.Store
}

// NewMongoStore builds a MongoStore over db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:  userstore.New(db),
		teams:  teamstore.New(db),
		events: eventstore.New(db),
	}
}

func (m *MongoStore) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	ev, err := m.events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	return ev, err
}

func (m *MongoStore) FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return m.users.FindByIDs(ctx, ids)
}

func (m *MongoStore) FindTeams(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	return m.teams.FindByIDs(ctx, ids)
}

func (m *MongoStore) PullEventFromUsers(ctx context.Context, userIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	_, err := m.users.PullRefFromMany(ctx, userIDs, userstore.FieldEvents, eventID)
	return err
}

func (m *MongoStore) PullEventFromTeams(ctx context.Context, teamIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	_, err := m.teams.PullRefFromMany(ctx, teamIDs, teamstore.FieldEvents, eventID)
	return err
}

// DeleteEvent treats an event that is already gone as deleted.
func (m *MongoStore) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if err := m.events.Delete(ctx, id); err != nil && !errors.Is(err, eventstore.ErrNotFound) {
		return err
	}
	return nil
}
