package workers

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memPetitions struct {
	byID map[primitive.ObjectID]models.Petition
}

func (m *memPetitions) ListPending(_ context.Context, after primitive.ObjectID, limit int64) ([]models.Petition, error) {
	var out []models.Petition
	for _, p := range m.byID {
		if p.State == models.PetitionPending && p.ID.Hex() > after.Hex() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPetitions) DeletePending(_ context.Context, id primitive.ObjectID, version int64) (bool, error) {
	p, ok := m.byID[id]
	if !ok || p.State != models.PetitionPending || p.Version != version {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

type memEntities map[primitive.ObjectID]bool

func (m memEntities) Exists(_ context.Context, _ petition.EntityType, id primitive.ObjectID) (bool, error) {
	return m[id], nil
}

func TestPetitionSweeper_PagesThroughAllPending(t *testing.T) {
	pets := &memPetitions{byID: map[primitive.ObjectID]models.Petition{}}
	entities := memEntities{}

	const total = 2*sweepBatchSize + 50
	orphans := 0
	for i := 0; i < total; i++ {
		entity := primitive.NewObjectID()
		if i%3 == 0 {
			orphans++
		} else {
			entities[entity] = true
		}
		p := models.Petition{ID: primitive.NewObjectID(), Type: "invite-user-event", State: models.PetitionPending, EntityID: entity}
		pets.byID[p.ID] = p
	}
	bad := models.Petition{ID: primitive.NewObjectID(), Type: "bogus", State: models.PetitionPending}
	pets.byID[bad.ID] = bad

	w := NewPetitionSweeper(pets, entities, zap.NewNop(), time.Minute)
	n, err := w.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}
	if n != orphans {
		t.Errorf("removed: got %d, want %d", n, orphans)
	}
	if len(pets.byID) != total-orphans+1 {
		t.Errorf("remaining: got %d, want %d", len(pets.byID), total-orphans+1)
	}
	if _, ok := pets.byID[bad.ID]; !ok {
		t.Error("petition with unknown type must be left alone")
	}
}
