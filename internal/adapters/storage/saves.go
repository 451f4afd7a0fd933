package storage

import (
	"context"
	"fmt"

	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
)

// SaveStore keeps the saved-ids set and the save-count ledger in
// lockstep. Membership changes and ledger adjustments happen only through
// Toggle, which writes both values as one logical unit.
type SaveStore struct {
	store kv.Store
}

// NewSaveStore creates a save store over the given backend.
func NewSaveStore(store kv.Store) *SaveStore {
	return &SaveStore{store: store}
}

// SavedIDs returns the set of ids currently marked saved, in save order.
// A corrupt payload degrades to empty.
func (s *SaveStore) SavedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := readJSON(ctx, s.store, keySavedIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Counts returns the save-count ledger. Entries are always positive: a
// count that reaches zero is removed rather than stored.
func (s *SaveStore) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	if _, err := readJSON(ctx, s.store, keySaveCounts, &counts); err != nil {
		return nil, err
	}
	for id, c := range counts {
		if c <= 0 {
			delete(counts, id)
		}
	}
	return counts, nil
}

// Toggle flips the saved state of id and adjusts its ledger count by one
// in the same direction. Both new values are computed up front; if the
// second write fails the first is reverted, so the pairing is never left
// half-applied.
func (s *SaveStore) Toggle(ctx context.Context, id string) (saved bool, count int, err error) {
	ids, err := s.SavedIDs(ctx)
	if err != nil {
		return false, 0, err
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return false, 0, err
	}

	wasSaved := false
	nextIDs := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing == id {
			wasSaved = true
			continue
		}
		nextIDs = append(nextIDs, existing)
	}
	if !wasSaved {
		nextIDs = append(nextIDs, id)
	}

	delta := 1
	if wasSaved {
		delta = -1
	}
	next := counts[id] + delta
	if next <= 0 {
		delete(counts, id)
		next = 0
	} else {
		counts[id] = next
	}

	if err := writeJSON(ctx, s.store, keySavedIDs, nextIDs); err != nil {
		return wasSaved, 0, fmt.Errorf("write saved ids: %w", err)
	}
	if err := writeJSON(ctx, s.store, keySaveCounts, counts); err != nil {
		// Revert the membership write so set and ledger stay paired.
		_ = writeJSON(ctx, s.store, keySavedIDs, ids)
		return wasSaved, 0, fmt.Errorf("write save counts: %w", err)
	}
	return !wasSaved, next, nil
}

// Clear wipes both the saved-ids set and the ledger.
func (s *SaveStore) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, keySavedIDs); err != nil {
		return err
	}
	return s.store.Remove(ctx, keySaveCounts)
}
