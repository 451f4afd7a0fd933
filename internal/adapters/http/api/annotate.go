package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type annotateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// handleAnnotate handles POST /annotate requests. The annotator chain
// already degrades to the local heuristic, so failures here are rare.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	const op = "api.annotate"
	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	annotation, err := s.deps.Annotate(r.Context(), req.Title, req.Description)
	if err != nil {
		writeError(w, http.StatusBadGateway, "annotate_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, annotation)
}
