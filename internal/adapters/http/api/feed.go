package api

import (
	"net/http"
	"strings"

	"github.com/bonyoongoo/campusfeed/internal/app"
	"github.com/bonyoongoo/campusfeed/internal/domain/feed"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
)

// handleFeed handles GET /feed?mode=&level=&tags=&q=&sort= requests.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_feed"
	q := r.URL.Query()

	req := app.FeedRequest{
		Mode:   feed.Mode(q.Get("mode")),
		Search: q.Get("q"),
		Sort:   feed.Sort(q.Get("sort")),
	}
	switch req.Mode {
	case "", feed.ModeAll, feed.ModePersonalized:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch req.Sort {
	case "", feed.SortTrending, feed.SortDate:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if lvl := q.Get("level"); lvl != "" && lvl != "all" {
		req.Level = model.ParseLevel(lvl)
		if req.Level == model.LevelUnknown {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}

	view, err := s.deps.Feed(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRefresh handles POST /refresh requests, re-fetching the catalog.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.deps.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
