// internal/app/system/workers/petitionsweeper.go
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	teamstore "github.com/dalemusser/gatherhub/internal/app/store/teams"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const sweepBatchSize = 200

// PendingPetitions is the petition storage the sweeper scans.
// petitionstore.Store satisfies it.
type PendingPetitions interface {
	ListPending(ctx context.Context, after primitive.ObjectID, limit int64) ([]models.Petition, error)
	DeletePending(ctx context.Context, id primitive.ObjectID, version int64) (bool, error)
}

// EntityChecker reports whether a team or event still exists.
type EntityChecker interface {
	Exists(ctx context.Context, typ petition.EntityType, id primitive.ObjectID) (bool, error)
}

// PetitionSweeper is a background worker that deletes pending petitions
// whose team or event has been removed. Answering such a petition would
// discard it anyway; the sweeper does it without waiting for an answer.
type PetitionSweeper struct {
	petitions PendingPetitions
	entities  EntityChecker
	log       *zap.Logger
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewPetitionSweeper creates a sweeper that runs every interval.
func NewPetitionSweeper(petitions PendingPetitions, entities EntityChecker, logger *zap.Logger, interval time.Duration) *PetitionSweeper {
	return &PetitionSweeper{
		petitions: petitions,
		entities:  entities,
		log:       logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *PetitionSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("petition sweeper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PetitionSweeper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("petition sweeper stopped")
}

func (w *PetitionSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
			n, err := w.SweepOnce(ctx)
			cancel()
			if err != nil {
				w.log.Error("petition sweep failed", zap.Error(err), zap.Int("removed", n))
				continue
			}
			if n > 0 {
				w.log.Info("removed orphaned petitions", zap.Int("count", n))
			}
		}
	}
}

// SweepOnce scans every pending petition once and returns how many were
// removed.
func (w *PetitionSweeper) SweepOnce(ctx context.Context) (int, error) {
	removed := 0
	after := primitive.NilObjectID
	for {
		batch, err := w.petitions.ListPending(ctx, after, sweepBatchSize)
		if err != nil {
			return removed, fmt.Errorf("list pending petitions: %w", err)
		}
		for _, p := range batch {
			ok, err := w.sweep(ctx, p)
			if err != nil {
				return removed, err
			}
			if ok {
				removed++
			}
		}
		if len(batch) < sweepBatchSize {
			return removed, nil
		}
		after = batch[len(batch)-1].ID
	}
}

func (w *PetitionSweeper) sweep(ctx context.Context, p models.Petition) (bool, error) {
	kind, err := petition.ParseType(p.Type)
	if err != nil {
		w.log.Warn("skipping petition with unknown type",
			zap.String("petition_id", p.ID.Hex()),
			zap.String("type", p.Type))
		return false, nil
	}

	exists, err := w.entities.Exists(ctx, kind.Target, p.EntityID)
	if err != nil {
		return false, fmt.Errorf("check %s %s: %w", kind.Target, p.EntityID.Hex(), err)
	}
	if exists {
		return false, nil
	}

	// The version guard keeps a petition answered meanwhile.
	ok, err := w.petitions.DeletePending(ctx, p.ID, p.Version)
	if err != nil {
		return false, fmt.Errorf("delete petition %s: %w", p.ID.Hex(), err)
	}
	return ok, nil
}

// MongoEntities checks teams and events in the application database.
type MongoEntities struct {
	teams  *teamstore.Store
	events *eventstore.Store
}

// NewMongoEntities builds an EntityChecker over db.
func NewMongoEntities(db *mongo.Database) *MongoEntities {
	return &MongoEntities{teams: teamstore.New(db), events: eventstore.New(db)}
}

func (m *MongoEntities) Exists(ctx context.Context, typ petition.EntityType, id primitive.ObjectID) (bool, error) {
	switch typ {
	case petition.Team:
		return m.teams.Exists(ctx, id)
	case petition.Event:
		return m.events.Exists(ctx, id)
	}
	return false, fmt.Errorf("no existence check for %q", typ)
}
