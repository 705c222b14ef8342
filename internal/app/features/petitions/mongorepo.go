// internal/app/features/petitions/mongorepo.go
package petitions

import (
	"context"
	"errors"
	"fmt"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	petitionstore "github.com/dalemusser/gatherhub/internal/app/store/petitions"
	teamstore "github.com/dalemusser/gatherhub/internal/app/store/teams"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"github.com/dalemusser/gatherhub/internal/app/system/txn"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoRepo is the Repository backed by the application database.
type MongoRepo struct {
	client    *mongo.Client
	users     *userstore.Store
	teams     *teamstore.Store
	events    *eventstore.Store
	petitions *petitionstore.Store
	log       *zap.Logger
}

// NewMongoRepo builds a MongoRepo over db.
func NewMongoRepo(db *mongo.Database, logger *zap.Logger) *MongoRepo {
	return &MongoRepo{
		client:    db.Client(),
		users:     userstore.New(db),
		teams:     teamstore.New(db),
		events:    eventstore.New(db),
		petitions: petitionstore.New(db),
		log:       logger,
	}
}

func (m *MongoRepo) GetPetition(ctx context.Context, id primitive.ObjectID) (*models.Petition, error) {
	p, err := m.petitions.GetByID(ctx, id)
	if errors.Is(err, petitionstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (m *MongoRepo) LoadEntity(ctx context.Context, typ petition.EntityType, id primitive.ObjectID, listField string) (*petition.Entity, error) {
	switch typ {
	case petition.User:
		u, err := m.users.GetByID(ctx, id)
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load user %s: %w", id.Hex(), err)
		}
		e := &petition.Entity{ID: u.ID}
		switch listField {
		case userstore.FieldTeams:
			e.List = u.Teams
		case userstore.FieldEvents:
			e.List = u.Events
		}
		return e, nil

	case petition.Team:
		t, err := m.teams.GetByID(ctx, id)
		if errors.Is(err, teamstore.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load team %s: %w", id.Hex(), err)
		}
		e := &petition.Entity{ID: t.ID, Managers: t.Managers}
		switch listField {
		case teamstore.FieldMembers:
			e.List = t.Members
		case teamstore.FieldEvents:
			e.List = t.Events
		}
		return e, nil

	case petition.Event:
		ev, err := m.events.GetByID(ctx, id)
		if errors.Is(err, eventstore.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load event %s: %w", id.Hex(), err)
		}
		e := &petition.Entity{ID: ev.ID, Managers: ev.Managers}
		switch listField {
		case eventstore.FieldParticipants:
			e.List = ev.Participants
		case eventstore.FieldTeams:
			e.List = ev.Teams
		}
		return e, nil
	}
	return nil, fmt.Errorf("load entity: unknown type %q", typ)
}

func (m *MongoRepo) Discard(ctx context.Context, p models.Petition) error {
	removed, err := m.petitions.DeletePending(ctx, p.ID, p.Version)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAlreadyAnswered
	}
	return nil
}

// Commit claims the petition first so a concurrent answer fails before any
// membership list is touched. The target side is written before the party.
func (m *MongoRepo) Commit(ctx context.Context, p models.Petition, state string, plan *petition.Plan) error {
	return txn.Run(ctx, m.client, m.log, func(ctx context.Context) error {
		if err := m.petitions.Transition(ctx, p.ID, p.Version, state); err != nil {
			if errors.Is(err, petitionstore.ErrAlreadyAnswered) {
				return ErrAlreadyAnswered
			}
			return err
		}
		if plan == nil {
			return nil
		}
		if err := m.apply(ctx, plan.Target); err != nil {
			return err
		}
		return m.apply(ctx, plan.Party)
	})
}

func (m *MongoRepo) apply(ctx context.Context, u petition.Update) error {
	var err error
	switch u.Collection {
	case petition.User.Collection():
		err = m.users.AddRef(ctx, u.ID, u.Field, u.Ref)
	case petition.Team.Collection():
		err = m.teams.AddRef(ctx, u.ID, u.Field, u.Ref)
	case petition.Event.Collection():
		err = m.events.AddRef(ctx, u.ID, u.Field, u.Ref)
	default:
		err = fmt.Errorf("unknown collection %q", u.Collection)
	}
	if err != nil {
		return fmt.Errorf("add %s to %s.%s of %s: %w", u.Ref.Hex(), u.Collection, u.Field, u.ID.Hex(), err)
	}
	return nil
}
