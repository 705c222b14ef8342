// Package errors is the last stop for failures a handler cannot map to a
// domain response. It logs the failure and answers with a generic JSON body.
package errors

import (
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// InternalMessage is the body text of every 500 response.
const InternalMessage = "Internal server error"

// ErrorLogger logs handler failures with request context.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs msg and err and writes 500 {"general": "Internal server error"}.
// Details of err never reach the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg, e.fields(r, err)...)
	respond.General(w, http.StatusInternalServerError, InternalMessage)
}

// LogBadRequest logs msg and err at warn level and writes 400 {"general": userMsg}.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Warn(msg, e.fields(r, err)...)
	respond.General(w, http.StatusBadRequest, userMsg)
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	return fields
}
