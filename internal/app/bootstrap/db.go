// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/gatherhub/internal/app/system/indexes"
	"github.com/dalemusser/gatherhub/internal/app/system/objstore"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/gatherhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and the object store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(appCfg.Timeouts)

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	objects, err := openObjects(ctx, appCfg, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	return DBDeps{
		GatherHubMongoClient:   client,
		GatherHubMongoDatabase: client.Database(appCfg.MongoDatabase),
		Objects:                objects,
	}, nil
}

func openObjects(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (objstore.Store, error) {
	if appCfg.StorageS3Bucket == "" {
		logger.Warn("no storage_s3_bucket configured; objects are kept in memory")
		return objstore.NewMemory("local"), nil
	}
	s3, err := objstore.NewS3(ctx, objstore.Config{
		Bucket: appCfg.StorageS3Bucket,
		Region: appCfg.StorageS3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	logger.Info("using S3 object storage", zap.String("bucket", appCfg.StorageS3Bucket))
	return s3, nil
}

// EnsureSchema creates the collections with their validators, then
// reconciles the indexes gatherhub relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.GatherHubMongoDatabase, logger); err != nil {
		logger.Error("collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.GatherHubMongoDatabase, logger); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}
