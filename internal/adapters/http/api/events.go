package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bonyoongoo/campusfeed/internal/adapters/storage"
	"github.com/bonyoongoo/campusfeed/internal/app"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/go-chi/chi/v5"
)

// handleSubmit handles POST /events requests, publishing a custom event.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	event, err := s.deps.Submit(r.Context(), draft)
	if err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Code:    "missing_fields",
				Message: verr.Error(),
				Missing: verr.Missing,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// handleEvent handles GET /events/{id} requests.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	id := chi.URLParam(r, "id")
	event, err := s.deps.EventByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// handleWithdraw handles DELETE /events/{id} requests for custom events.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"
	if err := s.deps.Withdraw(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type toggleResponse struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
	Count int    `json:"count"`
}

// handleToggleSave handles POST /events/{id}/save requests.
func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_save"
	id := chi.URLParam(r, "id")
	saved, count, err := s.deps.ToggleSave(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{ID: id, Saved: saved, Count: count})
}

// handleSaved handles GET /saved requests.
func (s *Server) handleSaved(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_saved"
	events, err := s.deps.Saved(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleClearSaves handles DELETE /saves requests, wiping the saved set
// and the ledger together.
func (s *Server) handleClearSaves(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear_saves"
	if err := s.deps.ClearSaves(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
