package teamstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no team matches.
	ErrNotFound = errors.New("team not found")
	// ErrDuplicate is returned when a team with the same _id already exists.
	ErrDuplicate = errors.New("team already exists")
)

// List fields on a team that hold references to other documents.
const (
	FieldMembers  = "members"
	FieldManagers = "managers"
	FieldEvents   = "events"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// GetByID loads a team by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Exists reports whether a team with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByIDs returns the teams among ids that exist.
func (s *Store) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert stores t as given. The caller owns ID and timestamps, which lets
// imported teams keep their original identity.
func (s *Store) Insert(ctx context.Context, t models.Team) error {
	if t.ID.IsZero() {
		return fmt.Errorf("teamstore: insert without _id")
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Create inserts a new team with a fresh ID and timestamps.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Managers == nil {
		t.Managers = []primitive.ObjectID{}
	}
	if t.Members == nil {
		t.Members = []primitive.ObjectID{}
	}
	if t.Events == nil {
		t.Events = []primitive.ObjectID{}
	}
	if err := s.Insert(ctx, t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// AddRef adds ref to the list field of team id. Adding an id that is
// already present is a no-op.
func (s *Store) AddRef(ctx context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	if err := checkField(field); err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{field: ref},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullRefFromMany removes ref from the list field of every team in ids.
func (s *Store) PullRefFromMany(ctx context.Context, ids []primitive.ObjectID, field string, ref primitive.ObjectID) (int64, error) {
	if err := checkField(field); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$pull": bson.M{field: ref},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Count returns the number of teams.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// PageIDs returns up to limit team ids after skipping skip, in _id order.
func (s *Store) PageIDs(ctx context.Context, skip, limit int64) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// SetReviewsAmount stores the denormalized review count of team id.
func (s *Store) SetReviewsAmount(ctx context.Context, id primitive.ObjectID, n int64) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reviewsAmount": n}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func checkField(field string) error {
	switch field {
	case FieldMembers, FieldManagers, FieldEvents:
		return nil
	}
	return fmt.Errorf("teamstore: %q is not a reference list", field)
}
