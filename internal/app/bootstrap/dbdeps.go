// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/gatherhub/internal/app/system/objstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end clients shared by handlers and workers.
type DBDeps struct {
	GatherHubMongoClient   *mongo.Client
	GatherHubMongoDatabase *mongo.Database

	// Objects stores event photos and team avatars.
	Objects objstore.Store
}
