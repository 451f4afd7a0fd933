// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bonyoongoo/campusfeed/internal/adapters/annotate"
	"github.com/bonyoongoo/campusfeed/internal/app"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/go-chi/chi/v5"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Feed(ctx context.Context, req app.FeedRequest) (app.FeedView, error)
	EventByID(ctx context.Context, id string) (model.Event, error)
	ToggleSave(ctx context.Context, id string) (saved bool, count int, err error)
	Saved(ctx context.Context) ([]model.Event, error)
	ClearSaves(ctx context.Context) error
	Submit(ctx context.Context, draft model.Draft) (model.Event, error)
	Withdraw(ctx context.Context, id string) error
	Profile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) error
	ClearProfile(ctx context.Context) error
	Annotate(ctx context.Context, title, description string) (annotate.Annotation, error)
	Refresh(ctx context.Context)
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the feed API.
type Server struct {
	deps Dependencies
}

// NewServer creates a new API server.
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(metricsMiddleware)

	r.Get("/healthz", handleHealth)
	r.Get("/metrics", handleMetrics)
	r.Get("/stats", s.handleStats)

	r.Get("/feed", s.handleFeed)
	r.Post("/refresh", s.handleRefresh)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", s.handleSubmit)
		r.Get("/{id}", s.handleEvent)
		r.Delete("/{id}", s.handleWithdraw)
		r.Post("/{id}/save", s.handleToggleSave)
	})

	r.Get("/saved", s.handleSaved)
	r.Delete("/saves", s.handleClearSaves)

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", s.handleGetProfile)
		r.Put("/", s.handlePutProfile)
		r.Delete("/", s.handleDeleteProfile)
	})

	r.Post("/annotate", s.handleAnnotate)
	return r
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
