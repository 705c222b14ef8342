// internal/app/features/events/delete.go
package events

import (
	"errors"
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/app/system/respond"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete deletes an event together with its photos and the
// references participants and teams hold to it.
//
// Route: DELETE /events/{eventID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := authz.CallerCtx(r)
	if !ok {
		respond.General(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if caller.IsBlocked {
		respond.General(w, http.StatusLocked, "You are blocked")
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		respond.General(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete event")
	defer cancel()

	err = h.Deleter.Delete(ctx, caller, oid)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusNoContent, nil)
	case errors.Is(err, ErrNotFound):
		respond.General(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, ErrForbidden):
		respond.General(w, http.StatusForbidden, "Forbidden action")
	case errors.Is(err, ErrReviewed):
		respond.General(w, http.StatusLocked, "It cannot be removed because it already ended and has one or more reviews")
	default:
		h.ErrLog.LogServerError(w, r, "delete event failed", err)
	}
}
