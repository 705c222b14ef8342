// internal/app/features/events/handler.go
package events

import (
	uierrors "github.com/dalemusser/gatherhub/internal/app/features/errors"
	"go.uber.org/zap"
)

// Handler owns the event routes.
type Handler struct {
	Deleter *Deleter
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(deleter *Deleter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Deleter: deleter,
		ErrLog:  errLog,
		Log:     logger,
	}
}
