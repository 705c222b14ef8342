// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
)

// AppConfig holds gatherhub-specific configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and CORS. Everything the
// gatherhub handlers and background workers need lives here and is passed
// explicitly to the components that use it.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: gatherhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Object storage for event photos and team avatars.
	// A blank bucket is only accepted outside prod; objects are then kept in memory.
	StorageS3Region string
	StorageS3Bucket string

	// Orphaned petition sweeper; zero disables it.
	SweepInterval time.Duration

	// Per-operation deadlines for database work.
	Timeouts timeouts.Config
}
