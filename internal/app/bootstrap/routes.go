// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/gatherhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/gatherhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/gatherhub/internal/app/features/health"
	petitionsfeature "github.com/dalemusser/gatherhub/internal/app/features/petitions"
	usersfeature "github.com/dalemusser/gatherhub/internal/app/features/users"
	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Every route except /health requires a signed-in caller; the session
// middleware resolves the caller from the cookie and reloads the user's
// admin and blocked flags on each request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	db := deps.GatherHubMongoDatabase
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.GatherHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	petitionsHandler := petitionsfeature.NewHandler(petitionsfeature.NewMongoRepo(db, logger), errLog, logger)
	r.Mount("/petitions", petitionsfeature.Routes(petitionsHandler, sessionMgr))

	deleter := eventsfeature.NewDeleter(eventsfeature.NewMongoStore(db), deps.Objects, logger)
	eventsHandler := eventsfeature.NewHandler(deleter, errLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(userstore.New(db), errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	return r, nil
}
