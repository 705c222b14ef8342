// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

// Desired returns every index gatherhub relies on.
func Desired() []Set {
	return []Set{
		{Collection: "users", Models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("uniq_users_username").SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "teams", Value: 1}}, Options: options.Index().SetName("idx_users_teams")},
			{Keys: bson.D{{Key: "events", Value: 1}}, Options: options.Index().SetName("idx_users_events")},
		}},
		{Collection: "teams", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "managers", Value: 1}}, Options: options.Index().SetName("idx_teams_managers")},
			{Keys: bson.D{{Key: "members", Value: 1}}, Options: options.Index().SetName("idx_teams_members")},
		}},
		{Collection: "events", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "managers", Value: 1}}, Options: options.Index().SetName("idx_events_managers")},
			{Keys: bson.D{{Key: "endDate", Value: 1}}, Options: options.Index().SetName("idx_events_enddate")},
		}},
		{Collection: "petitions", Models: []mongo.IndexModel{
			// sweeper pages pending petitions by _id
			{
				Keys:    bson.D{{Key: "state", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_petitions_state"),
			},
			{Keys: bson.D{{Key: "entityId", Value: 1}}, Options: options.Index().SetName("idx_petitions_entity")},
			{
				Keys:    bson.D{{Key: "receiverId", Value: 1}, {Key: "state", Value: 1}},
				Options: options.Index().SetName("idx_petitions_receiver_state"),
			},
		}},
		{Collection: "reviews", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "team", Value: 1}}, Options: options.Index().SetName("idx_reviews_team")},
		}},
	}
}

/*
EnsureAll is called at startup and is idempotent. Problems from every
collection are aggregated so a single run shows all of them.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, set := range Desired() {
		if err := Reconcile(ctx, db.Collection(set.Collection), set.Models, logger); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ",")
}

/*
Reconcile makes coll carry the wanted indexes. An existing index with the
same keys is kept when its name and uniqueness match, otherwise it is
dropped and recreated under the wanted name.
*/
func Reconcile(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel, logger *zap.Logger) error {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	var have []existingIndex
	if err := cur.All(ctx, &have); err != nil {
		return fmt.Errorf("decode indexes: %w", err)
	}
	bySig := make(map[string]existingIndex, len(have))
	for _, ix := range have {
		bySig[keySig(ix.Key)] = ix
	}

	var create []mongo.IndexModel
	for _, m := range want {
		keys, ok := m.Keys.(bson.D)
		if !ok {
			return fmt.Errorf("index keys must be bson.D, got %T", m.Keys)
		}
		name, unique := describe(m.Options)
		ix, found := bySig[keySig(keys)]
		switch {
		case !found:
			create = append(create, m)
		case ix.Name == name && ix.Unique == unique:
			// already in place
		default:
			logger.Info("replacing index",
				zap.String("collection", coll.Name()),
				zap.String("old_name", ix.Name),
				zap.String("new_name", name))
			if _, err := coll.Indexes().DropOne(ctx, ix.Name); err != nil {
				return fmt.Errorf("drop %s: %w", ix.Name, err)
			}
			create = append(create, m)
		}
	}
	if len(create) == 0 {
		return nil
	}

	if _, err := coll.Indexes().CreateMany(ctx, create); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("unique index cannot be built, existing documents hold duplicate values: %w", err)
		}
		return err
	}
	logger.Info("created indexes", zap.String("collection", coll.Name()), zap.Int("count", len(create)))
	return nil
}

func describe(o *options.IndexOptions) (name string, unique bool) {
	if o == nil {
		return "", false
	}
	if o.Name != nil {
		name = *o.Name
	}
	if o.Unique != nil {
		unique = *o.Unique
	}
	return name, unique
}
