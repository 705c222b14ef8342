// internal/app/features/users/get.go
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/gatherhub/internal/app/store/users"
	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/app/system/respond"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeUser returns the profile of a user, showing only what the caller
// may see.
//
// Route: GET /users/{userID}
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := authz.CallerCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if caller.IsBlocked {
		respond.Message(w, http.StatusLocked, "You are blocked")
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetActiveByID(ctx, oid)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err)
		return
	}

	view, err := Project(u, VisibleFields(caller, u))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project user failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
