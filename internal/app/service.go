// Package app provides the core feed service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/bonyoongoo/campusfeed/internal/adapters/annotate"
	"github.com/bonyoongoo/campusfeed/internal/adapters/catalog"
	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
	"github.com/bonyoongoo/campusfeed/internal/adapters/storage"
	"github.com/bonyoongoo/campusfeed/internal/domain/feed"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/bonyoongoo/campusfeed/internal/domain/normalize"
	"github.com/bonyoongoo/campusfeed/pkg/logger"
	"github.com/bonyoongoo/campusfeed/pkg/metrics"
)

// ErrNotFound reports a lookup for an unknown event id.
var ErrNotFound = errors.New("event not found")

// Service wires the feed pipeline to its collaborators: the catalog
// source, the kv-backed stores, and the annotation client.
type Service struct {
	mu sync.RWMutex

	source    catalog.Source
	annotator annotate.Annotator
	profiles  *storage.ProfileStore
	saves     *storage.SaveStore
	custom    *storage.CustomStore

	// catalogEvents is the normalized catalog from the last load. It is
	// rebuilt in full on Start/Refresh, never mutated in place.
	catalogEvents []model.Event

	tagCloudSize int
	trendingSize int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the catalog source.
func WithSource(src catalog.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithAnnotator sets the annotation collaborator.
func WithAnnotator(a annotate.Annotator) Option {
	return func(s *Service) {
		if a != nil {
			s.annotator = a
		}
	}
}

// WithStore sets the kv backend shared by the typed stores.
func WithStore(store kv.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.profiles = storage.NewProfileStore(store)
			s.saves = storage.NewSaveStore(store)
			s.custom = storage.NewCustomStore(store)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTagCloudSize caps the popular-tags aggregate.
func WithTagCloudSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tagCloudSize = n
		}
	}
}

// WithTrendingSize caps the trending aggregate.
func WithTrendingSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.trendingSize = n
		}
	}
}

// New constructs a Service with default configuration: an in-memory
// store and the heuristic annotator.
func New(opts ...Option) *Service {
	s := &Service{
		annotator:    annotate.NewHeuristic(),
		tagCloudSize: feed.TagCloudSize,
		trendingSize: feed.TrendingSize,
	}
	WithStore(kv.NewMemory())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start performs the initial catalog load. A failed load degrades to an
// empty catalog and is never surfaced as an error; the feed stays usable.
func (s *Service) Start(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.Refresh(ctx)
	return nil
}

// Refresh re-fetches and re-normalizes the catalog. The same raw records
// always normalize to the same events, generated ids included.
func (s *Service) Refresh(ctx context.Context) {
	if s.source == nil {
		return
	}
	raws, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.RecordCatalogLoadError()
		s.logger.Warn(ctx, "catalog load failed; continuing with empty catalog", logger.Error(err))
		raws = nil
	} else {
		metrics.RecordCatalogLoad()
	}

	events := normalize.Records(raws)
	metrics.RecordEventsNormalized(len(events))
	metrics.UpdateCatalogSize(len(events))

	s.mu.Lock()
	s.catalogEvents = events
	s.mu.Unlock()

	s.logger.Info(ctx, "catalog loaded", logger.Int("events", len(events)))
}

// FeedRequest selects and orders the visible event set.
type FeedRequest struct {
	Mode   feed.Mode
	Level  model.Level
	Tags   []string
	Search string
	Sort   feed.Sort
}

// FeedView is one fully computed feed response.
type FeedView struct {
	Mode     feed.Mode            `json:"mode"`
	Events   []model.Event        `json:"events"`
	TagCloud []feed.TagCount      `json:"tagCloud"`
	Trending []feed.TrendingEntry `json:"trending"`
}

// Feed runs the full pipeline: merge, personalize, aggregate, then
// query/sort. Aggregates are computed over the base pool so they reflect
// the current view mode, not the active filters.
func (s *Service) Feed(ctx context.Context, req FeedRequest) (FeedView, error) {
	metrics.RecordFeedQuery()

	pool, err := s.pool(ctx)
	if err != nil {
		return FeedView{}, err
	}

	mode := req.Mode
	if mode == "" {
		mode = feed.ModeAll
	}
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return FeedView{}, err
	}
	base := feed.Personalize(pool, profile, mode)

	counts, err := s.saves.Counts(ctx)
	if err != nil {
		return FeedView{}, err
	}
	savedIDs, err := s.saves.SavedIDs(ctx)
	if err != nil {
		return FeedView{}, err
	}
	metrics.UpdateSavedSize(len(savedIDs))

	view := FeedView{
		Mode:     mode,
		TagCloud: feed.TagCloud(base, s.tagCloudSize),
		Trending: feed.Trending(base, counts, s.trendingSize),
	}
	view.Events = feed.Apply(base, feed.Query{
		Level:  req.Level,
		Tags:   req.Tags,
		Search: req.Search,
		Sort:   req.Sort,
	}, savedIDs)
	return view, nil
}

// EventByID finds one event across both sources.
func (s *Service) EventByID(ctx context.Context, id string) (model.Event, error) {
	pool, err := s.pool(ctx)
	if err != nil {
		return model.Event{}, err
	}
	for _, e := range pool {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, ErrNotFound
}

// ToggleSave flips the saved state of id and keeps the save-count ledger
// paired with it.
func (s *Service) ToggleSave(ctx context.Context, id string) (saved bool, count int, err error) {
	metrics.RecordSaveToggle()
	return s.saves.Toggle(ctx, id)
}

// Saved returns the saved events in feed order.
func (s *Service) Saved(ctx context.Context) ([]model.Event, error) {
	pool, err := s.pool(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.saves.SavedIDs(ctx)
	if err != nil {
		return nil, err
	}
	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	var out []model.Event
	for _, e := range pool {
		if saved[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// ClearSaves wipes the saved-ids set and the ledger together.
func (s *Service) ClearSaves(ctx context.Context) error {
	return s.saves.Clear(ctx)
}

// Submit validates and publishes a custom event.
func (s *Service) Submit(ctx context.Context, draft model.Draft) (model.Event, error) {
	event, err := s.custom.Add(ctx, draft)
	if err != nil {
		return model.Event{}, err
	}
	metrics.RecordCustomPublished()
	s.logger.Info(ctx, "custom event published",
		logger.String("id", event.ID),
		logger.String("title", event.Title),
	)
	return event, nil
}

// Withdraw removes a previously published custom event.
func (s *Service) Withdraw(ctx context.Context, id string) error {
	if err := s.custom.Remove(ctx, id); err != nil {
		return err
	}
	metrics.RecordCustomWithdrawn()
	return nil
}

// Profile returns the stored profile, or nil when none exists.
func (s *Service) Profile(ctx context.Context) (*model.Profile, error) {
	return s.profiles.Get(ctx)
}

// SaveProfile validates and persists the profile.
func (s *Service) SaveProfile(ctx context.Context, p model.Profile) error {
	return s.profiles.Save(ctx, p)
}

// ClearProfile removes the profile; the feed degrades to show-everything.
func (s *Service) ClearProfile(ctx context.Context) error {
	return s.profiles.Clear(ctx)
}

// Annotate enriches submission text via the collaborator chain.
func (s *Service) Annotate(ctx context.Context, title, description string) (annotate.Annotation, error) {
	return s.annotator.Annotate(ctx, title, description)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	catalogSize := len(s.catalogEvents)
	s.mu.RUnlock()

	stats := map[string]any{
		"catalogEvents": catalogSize,
	}
	if events, err := s.custom.List(ctx); err == nil {
		stats["customEvents"] = len(events)
		metrics.UpdateCustomSize(len(events))
	}
	if ids, err := s.saves.SavedIDs(ctx); err == nil {
		stats["savedEvents"] = len(ids)
	}
	if profile, err := s.profiles.Get(ctx); err == nil {
		stats["hasProfile"] = profile != nil
	}
	return stats
}

// pool merges custom events with the loaded catalog, custom first.
func (s *Service) pool(ctx context.Context) ([]model.Event, error) {
	custom, err := s.custom.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	catalogEvents := s.catalogEvents
	s.mu.RUnlock()
	return feed.Merge(custom, catalogEvents), nil
}
