// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the gatherhub collections when missing and attaches
// JSON-Schema validators. Deployments without collMod support (some
// DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range []struct {
		name   string
		schema bson.M
	}{
		{"users", nil},
		{"teams", teamsSchema()},
		{"events", nil},
		{"petitions", petitionsSchema()},
		{"reviews", reviewsSchema()},
	} {
		if !have[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && !isNamespaceExists(err) {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
			logger.Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if isUnsupported(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// setValidator uses moderate validation so legacy documents that already
// break the schema can still be updated.
func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// isUnsupported matches CommandNotFound (59) and NotImplemented (115).
func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") || strings.Contains(s, "not supported")
}

func objectIDs() bson.M {
	return bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}}
}

func petitionsSchema() bson.M {
	types := bson.A{}
	for _, t := range petition.Types() {
		types = append(types, t)
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"type", "state", "senderId", "receiverId", "entityId"},
			"properties": bson.M{
				"type":       bson.M{"enum": types},
				"state":      bson.M{"enum": bson.A{models.PetitionPending, models.PetitionAccepted, models.PetitionRejected}},
				"senderId":   bson.M{"bsonType": "objectId"},
				"receiverId": bson.M{"bsonType": "objectId"},
				"entityId":   bson.M{"bsonType": "objectId"},
				"version":    bson.M{"bsonType": bson.A{"int", "long"}},
			},
		},
	}
}

func teamsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "managers"},
			"properties": bson.M{
				"name":          bson.M{"bsonType": "string", "minLength": 1, "maxLength": 35},
				"description":   bson.M{"bsonType": "string", "maxLength": 300},
				"managers":      objectIDs(),
				"members":       objectIDs(),
				"events":        objectIDs(),
				"reviewsAmount": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func reviewsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"team"},
			"properties": bson.M{
				"team": bson.M{"bsonType": "objectId"},
			},
		},
	}
}
