// Command importteams copies teams from the legacy database into gatherhub,
// moving custom avatars to S3 and recomputing review counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/gatherhub/internal/app/migrate/teamimport"
	legacyteamstore "github.com/dalemusser/gatherhub/internal/app/store/legacyteams"
	reviewstore "github.com/dalemusser/gatherhub/internal/app/store/reviews"
	teamstore "github.com/dalemusser/gatherhub/internal/app/store/teams"
	"github.com/dalemusser/gatherhub/internal/app/system/objstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file to load before reading the environment")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *envFile, logger); err != nil {
		logger.Error("team import failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile string, logger *zap.Logger) error {
	cfg, err := teamimport.LoadConfig(envFile)
	if err != nil {
		return err
	}

	client, err := connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer disconnect(client, "db", logger)
	logger.Info("connection to db established")

	oldClient, err := connect(ctx, cfg.OldDBURI)
	if err != nil {
		return fmt.Errorf("connect old db: %w", err)
	}
	defer disconnect(oldClient, "old db", logger)
	logger.Info("connection to old db established")

	objects, err := objstore.NewS3(ctx, objstore.Config{Bucket: cfg.Bucket, Region: cfg.Region})
	if err != nil {
		return err
	}

	db := client.Database(cfg.DBName)
	avatars := teamimport.NewAvatars(&http.Client{Timeout: cfg.FetchTimeout}, objects)
	runner := teamimport.NewRunner(
		legacyteamstore.New(oldClient.Database(cfg.OldDBName)),
		teamstore.New(db),
		reviewstore.New(db),
		avatars,
		cfg,
		logger,
	)

	_, err = runner.Run(ctx)
	return err
}

func connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func disconnect(c *mongo.Client, name string, logger *zap.Logger) {
	if err := c.Disconnect(context.Background()); err != nil {
		logger.Error("disconnect failed", zap.String("client", name), zap.Error(err))
		return
	}
	logger.Info("connection closed", zap.String("client", name))
}
