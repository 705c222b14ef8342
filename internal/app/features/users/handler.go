// internal/app/features/users/handler.go
package users

import (
	"context"

	uierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Finder loads users that have not been archived. userstore.Store satisfies it.
type Finder interface {
	GetActiveByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Handler owns the user routes.
type Handler struct {
	Users  Finder
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users Finder, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		ErrLog: errLog,
		Log:    logger,
	}
}
