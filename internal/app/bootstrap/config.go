// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for gatherhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: GATHERHUB_MONGO_URI, GATHERHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "gatherhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "gatherhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// Object storage
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3 (blank uses the SDK default chain)"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket holding event photos and team avatars"},

	// Background work
	{Name: "sweep_interval", Default: "15m", Desc: "How often orphaned pending petitions are removed (0 disables)"},

	// Database deadlines
	{Name: "timeouts_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeouts_medium", Default: "10s", Desc: "Deadline for petition updates"},
	{Name: "timeouts_long", Default: "30s", Desc: "Deadline for event removal"},
	{Name: "timeouts_batch", Default: "2m", Desc: "Deadline for one sweeper pass"},
}

// LoadConfig loads WAFFLE core config and gatherhub config.
//
// Precedence is flags > env (GATHERHUB_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GATHERHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		StorageS3Region: appValues.String("storage_s3_region"),
		StorageS3Bucket: appValues.String("storage_s3_bucket"),

		SweepInterval: appValues.Duration("sweep_interval", 15*time.Minute),

		Timeouts: timeouts.Config{
			Short:  appValues.Duration("timeouts_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeouts_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeouts_long", timeouts.DefaultLong),
			Batch:  appValues.Duration("timeouts_batch", timeouts.DefaultBatch),
		},
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot work before any
// backend is contacted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive, got %s", appCfg.SessionMaxAge)
	}
	if appCfg.SweepInterval < 0 {
		return fmt.Errorf("sweep_interval must not be negative, got %s", appCfg.SweepInterval)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.StorageS3Bucket == "" {
		return fmt.Errorf("storage_s3_bucket is required in prod")
	}
	return nil
}
