// internal/app/features/events/deleter.go
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/app/system/objstore"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("caller may not delete event")
	// ErrReviewed means the event ended and has reviews, so it is kept.
	ErrReviewed = errors.New("event ended and has reviews")
)

// Store is the persistence the Deleter needs.
type Store interface {
	// GetEvent returns ErrNotFound when id does not exist.
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindTeams(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error)
	PullEventFromUsers(ctx context.Context, userIDs []primitive.ObjectID, eventID primitive.ObjectID) error
	PullEventFromTeams(ctx context.Context, teamIDs []primitive.ObjectID, eventID primitive.ObjectID) error
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
}

// Deleter removes an event and every reference to it.
type Deleter struct {
	store   Store
	objects objstore.Store
	log     *zap.Logger
	now     func() time.Time
}

// NewDeleter builds a Deleter.
func NewDeleter(store Store, objects objstore.Store, logger *zap.Logger) *Deleter {
	return &Deleter{store: store, objects: objects, log: logger, now: time.Now}
}

// Delete removes event id on behalf of caller.
//
// Steps run in order and the first failure stops the run. Steps already
// done stay done: participants may have lost the event while the event
// itself still exists.
func (d *Deleter) Delete(ctx context.Context, caller authz.Caller, id primitive.ObjectID) error {
	ev, err := d.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanAct(caller, authz.Subject{ID: ev.ID, Managers: ev.Managers}, authz.Manager) {
		return ErrForbidden
	}

	if ev.Ended(d.now()) && ev.Reviews > 0 {
		return ErrReviewed
	}

	var (
		users []models.User
		teams []models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = d.store.FindUsers(gctx, ev.Participants)
		if err != nil {
			return fmt.Errorf("find participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = d.store.FindTeams(gctx, ev.Teams)
		if err != nil {
			return fmt.Errorf("find teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	userIDs := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	d.logMissing("participant", ev, ev.Participants, userIDs)

	teamIDs := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	d.logMissing("team", ev, ev.Teams, teamIDs)

	if err := d.store.PullEventFromUsers(ctx, userIDs, ev.ID); err != nil {
		return fmt.Errorf("update participants: %w", err)
	}

	for _, photo := range ev.Photos {
		key := objstore.EventPhotoKey(photo.URL)
		if err := d.objects.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete photo: %w", err)
		}
	}

	if err := d.store.PullEventFromTeams(ctx, teamIDs, ev.ID); err != nil {
		return fmt.Errorf("update teams: %w", err)
	}

	if err := d.store.DeleteEvent(ctx, ev.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	d.log.Info("event deleted",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("caller_id", caller.ID.Hex()),
		zap.Int("participants", len(userIDs)),
		zap.Int("teams", len(teamIDs)),
		zap.Int("photos", len(ev.Photos)))
	return nil
}

// logMissing warns about referenced documents that no longer exist.
func (d *Deleter) logMissing(kind string, ev *models.Event, want, found []primitive.ObjectID) {
	if len(want) == len(found) {
		return
	}
	for _, id := range want {
		if !authz.Contains(found, id) {
			d.log.Warn("event references missing "+kind,
				zap.String("event_id", ev.ID.Hex()),
				zap.String(kind+"_id", id.Hex()))
		}
	}
}
