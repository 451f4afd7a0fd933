package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bonyoongoo/campusfeed/internal/domain/model"
)

// handleGetProfile handles GET /profile requests. No stored profile is a
// legitimate state and comes back as 200 with a null body.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	profile, err := s.deps.Profile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handlePutProfile handles PUT /profile requests.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_profile"
	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := s.deps.SaveProfile(r.Context(), profile); err != nil {
		if errors.Is(err, model.ErrProfileName) || errors.Is(err, model.ErrProfileInterests) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_profile", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleDeleteProfile handles DELETE /profile requests.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_profile"
	if err := s.deps.ClearProfile(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
