// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	petitionstore "github.com/dalemusser/gatherhub/internal/app/store/petitions"
	"github.com/dalemusser/gatherhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds workers started in Startup and stopped in Shutdown.
var background struct {
	mu      sync.Mutex
	sweeper *workers.PetitionSweeper
}

// Startup runs after the database is connected and indexed, before the
// HTTP handler is built. It starts the orphaned petition sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SweepInterval <= 0 {
		logger.Info("petition sweeper disabled")
		return nil
	}

	db := deps.GatherHubMongoDatabase
	sw := workers.NewPetitionSweeper(petitionstore.New(db), workers.NewMongoEntities(db), logger, appCfg.SweepInterval)
	sw.Start()

	background.mu.Lock()
	background.sweeper = sw
	background.mu.Unlock()
	return nil
}

func stopBackground() {
	background.mu.Lock()
	sw := background.sweeper
	background.sweeper = nil
	background.mu.Unlock()

	if sw != nil {
		sw.Stop()
	}
}
