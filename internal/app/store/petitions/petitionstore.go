package petitionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no petition matches.
	ErrNotFound = errors.New("petition not found")
	// ErrAlreadyAnswered is returned when a transition finds the petition
	// no longer pending at the version it was read with.
	ErrAlreadyAnswered = errors.New("petition already answered")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("petitions")}
}

// GetByID loads a petition by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Petition, error) {
	var p models.Petition
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a pending petition.
func (s *Store) Create(ctx context.Context, p models.Petition) (models.Petition, error) {
	p.ID = primitive.NewObjectID()
	if p.State == "" {
		p.State = models.PetitionPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Petition{}, err
	}
	return p, nil
}

// Transition moves a pending petition read at version to state and bumps
// its version. It returns ErrAlreadyAnswered when another writer got there
// first.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, version int64, state string) error {
	res, err := s.c.UpdateOne(ctx, pendingAt(id, version), bson.M{
		"$set": bson.M{"state": state, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlreadyAnswered
	}
	return nil
}

// DeletePending removes id if it is still pending at version. It reports
// whether a document was removed.
func (s *Store) DeletePending(ctx context.Context, id primitive.ObjectID, version int64) (bool, error) {
	res, err := s.c.DeleteOne(ctx, pendingAt(id, version))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListPending returns up to limit pending petitions with _id greater than
// after, in _id order. Pass primitive.NilObjectID to start at the beginning.
func (s *Store) ListPending(ctx context.Context, after primitive.ObjectID, limit int64) ([]models.Petition, error) {
	filter := bson.M{"state": models.PetitionPending}
	if !after.IsZero() {
		filter["_id"] = bson.M{"$gt": after}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Petition
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pendingAt matches a pending petition at version. Documents written
// before versioning have no version field and count as version 0.
func pendingAt(id primitive.ObjectID, version int64) bson.M {
	f := bson.M{"_id": id, "state": models.PetitionPending}
	if version == 0 {
		f["version"] = bson.M{"$in": bson.A{int64(0), nil}}
	} else {
		f["version"] = version
	}
	return f
}
