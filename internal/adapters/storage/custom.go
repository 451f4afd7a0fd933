package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
	"github.com/google/uuid"
)

// Id handling for submitted drafts.
const (
	// previewIDPrefix marks throwaway ids minted for live previews; a
	// published draft carrying one gets a real id instead.
	previewIDPrefix = "preview_"
	customIDPrefix  = "cust_"
)

// ValidationError reports a rejected draft along with the enumerated
// missing fields; nothing is committed when it occurs.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "draft missing required fields: " + strings.Join(e.Missing, ", ")
}

// CustomStore is the append-only collection of user-submitted events.
// State lives in the kv backend; every read goes back to it so external
// changes are picked up explicitly rather than through a hidden cache.
type CustomStore struct {
	store kv.Store
	now   func() time.Time
}

// NewCustomStore creates a custom-event store over the given backend.
func NewCustomStore(store kv.Store) *CustomStore {
	return &CustomStore{store: store, now: time.Now}
}

// SetClock overrides the creation-timestamp clock, for tests.
func (c *CustomStore) SetClock(now func() time.Time) {
	c.now = now
}

// Add validates the draft and appends it as a custom event. A
// caller-supplied id is preserved (idempotent republish) unless it is
// absent or a preview sentinel, in which case a fresh id is minted.
func (c *CustomStore) Add(ctx context.Context, draft model.Draft) (model.Event, error) {
	if missing := draft.MissingFields(); len(missing) > 0 {
		return model.Event{}, &ValidationError{Missing: missing}
	}

	id := draft.ID
	if id == "" || strings.HasPrefix(id, previewIDPrefix) {
		id = customIDPrefix + uuid.NewString()
	}
	createdAt := c.now().UTC()
	event := model.Event{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Faculty:     draft.Faculty,
		Tags:        lowercaseTags(draft.Tags),
		Level:       draft.Level,
		Start:       draft.Start,
		End:         draft.End,
		Location:    draft.Location,
		URL:         draft.URL,
		Organizer:   draft.Organizer,
		IsCustom:    true,
		CreatedAt:   &createdAt,
	}

	events, err := c.List(ctx)
	if err != nil {
		return model.Event{}, err
	}
	events = append(events, event)
	if err := writeJSON(ctx, c.store, keyCustom, events); err != nil {
		return model.Event{}, fmt.Errorf("persist custom events: %w", err)
	}
	return event, nil
}

// List returns all custom events in submission order. A corrupt payload
// degrades to empty.
func (c *CustomStore) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if _, err := readJSON(ctx, c.store, keyCustom, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Remove deletes the custom event with the given id, if present.
func (c *CustomStore) Remove(ctx context.Context, id string) error {
	events, err := c.List(ctx)
	if err != nil {
		return err
	}
	next := events[:0]
	for _, e := range events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return writeJSON(ctx, c.store, keyCustom, next)
}

// Clear drops every custom event.
func (c *CustomStore) Clear(ctx context.Context) error {
	return c.store.Remove(ctx, keyCustom)
}

func lowercaseTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
