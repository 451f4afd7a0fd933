package storage

import (
	"context"

	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
	"github.com/bonyoongoo/campusfeed/internal/domain/model"
)

// ProfileStore persists the single user profile.
type ProfileStore struct {
	store kv.Store
}

// NewProfileStore creates a profile store over the given backend.
func NewProfileStore(store kv.Store) *ProfileStore {
	return &ProfileStore{store: store}
}

// Save validates and persists the profile. Invalid profiles are rejected
// and never partially written.
func (p *ProfileStore) Save(ctx context.Context, profile model.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return writeJSON(ctx, p.store, keyProfile, profile)
}

// Get returns the stored profile, or nil when none exists or the stored
// payload is unreadable.
func (p *ProfileStore) Get(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	ok, err := readJSON(ctx, p.store, keyProfile, &profile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// Clear removes the profile.
func (p *ProfileStore) Clear(ctx context.Context) error {
	return p.store.Remove(ctx, keyProfile)
}
