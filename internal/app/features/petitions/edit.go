// internal/app/features/petitions/edit.go
package petitions

import (
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/system/authz"
	"github.com/dalemusser/gatherhub/internal/app/system/respond"
	"github.com/dalemusser/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/gatherhub/internal/domain/petition"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type editInput struct {
	State string `json:"state"`
}

// HandleEdit accepts or rejects a petition.
//
// Route: PATCH /petitions/{petitionID}
// Body:  {"state": "accepted" | "rejected"}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	caller, ok := authz.CallerCtx(r)
	if !ok {
		respond.General(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if caller.IsBlocked {
		respond.General(w, http.StatusLocked, "You are blocked")
		return
	}

	idHex := chi.URLParam(r, "petitionID")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respond.General(w, http.StatusNotFound, "Petition not found")
		return
	}

	// An empty body leaves State empty, which Decide rejects only after the
	// removal and authorization checks. Broken JSON is refused outright.
	var in editInput
	if err := respond.DecodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		h.ErrLog.LogBadRequest(w, r, "decode petition body failed", err, "Invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "edit petition")
	defer cancel()

	p, err := h.Repo.GetPetition(ctx, oid)
	if errors.Is(err, ErrNotFound) {
		respond.General(w, http.StatusNotFound, "Petition not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load petition failed", err)
		return
	}

	kind, err := petition.ParseType(p.Type)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "petition has unknown type", err)
		return
	}

	facts := petition.Facts{
		Kind:     kind,
		Petition: *p,
		Desired:  in.State,
		Caller:   caller,
	}
	if p.State == models.PetitionPending {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			facts.Target, err = h.Repo.LoadEntity(gctx, kind.Target, p.EntityID, kind.TargetField())
			return err
		})
		g.Go(func() error {
			var err error
			facts.Party, err = h.Repo.LoadEntity(gctx, kind.Party, kind.PartyID(*p), "")
			return err
		})
		if err := g.Wait(); err != nil {
			h.ErrLog.LogServerError(w, r, "load petition entities failed", err)
			return
		}
	}

	d := petition.Decide(facts)
	switch d.Outcome {
	case petition.AlreadyAnswered:
		respond.General(w, http.StatusLocked, d.Message)

	case petition.Discard:
		err := h.Repo.Discard(ctx, *p)
		if errors.Is(err, ErrAlreadyAnswered) {
			h.answeredMeanwhile(w, r, oid)
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "discard petition failed", err)
			return
		}
		h.Log.Info("petition discarded",
			zap.String("petition_id", idHex),
			zap.String("type", p.Type),
			zap.String("reason", d.Message))
		respond.General(w, http.StatusBadRequest, d.Message)

	case petition.Forbidden:
		respond.General(w, http.StatusForbidden, d.Message)

	case petition.InvalidState:
		respond.Field(w, http.StatusBadRequest, "state", d.Message)

	case petition.Commit:
		err := h.Repo.Commit(ctx, *p, d.State, d.Plan)
		if errors.Is(err, ErrAlreadyAnswered) {
			h.answeredMeanwhile(w, r, oid)
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "commit petition failed", err)
			return
		}
		h.Log.Info("petition answered",
			zap.String("petition_id", idHex),
			zap.String("type", p.Type),
			zap.String("state", d.State),
			zap.String("caller_id", caller.ID.Hex()))
		respond.General(w, http.StatusOK, "Success")
	}
}

// answeredMeanwhile reports the state another request left the petition in.
func (h *Handler) answeredMeanwhile(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reload petition")
	defer cancel()

	p, err := h.Repo.GetPetition(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		respond.General(w, http.StatusNotFound, "Petition not found")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "reload petition failed", err)
	default:
		respond.General(w, http.StatusLocked, "Is already "+p.State)
	}
}
