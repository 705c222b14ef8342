// Package legacyteamstore reads team documents from the previous database.
package legacyteamstore

import (
	"context"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Count returns the number of legacy teams.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Page returns up to limit legacy teams after skipping skip, in _id order.
func (s *Store) Page(ctx context.Context, skip, limit int64) ([]models.LegacyTeam, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LegacyTeam
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
