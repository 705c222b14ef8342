// internal/app/features/petitions/handler.go
package petitions

import (
	"context"
	"errors"

	uierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by a Repository when the petition does not exist.
	ErrNotFound = errors.New("petition not found")
	// ErrAlreadyAnswered is returned by Commit when another request answered
	// the petition after it was read.
	ErrAlreadyAnswered = errors.New("petition already answered")
)

// Repository is the persistence used to answer petitions.
type Repository interface {
	// GetPetition returns ErrNotFound when id does not exist.
	GetPetition(ctx context.Context, id primitive.ObjectID) (*models.Petition, error)
	// LoadEntity returns nil, nil when the document does not exist. List is
	// filled from listField, which may be empty.
	LoadEntity(ctx context.Context, typ petition.EntityType, id primitive.ObjectID, listField string) (*petition.Entity, error)
	// Discard deletes a petition that can no longer be acted upon. It
	// returns ErrAlreadyAnswered when the petition changed after it was read.
	Discard(ctx context.Context, p models.Petition) error
	// Commit moves p to state and applies plan, if any, as one unit.
	Commit(ctx context.Context, p models.Petition, state string, plan *petition.Plan) error
}

// Handler answers petitions.
type Handler struct {
	Repo   Repository
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a petitions Handler.
func NewHandler(repo Repository, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Repo:   repo,
		ErrLog: errLog,
		Log:    logger,
	}
}
