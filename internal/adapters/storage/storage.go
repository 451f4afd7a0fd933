// Package storage provides typed stores over the kv persistence port:
// the user profile, the saved-ids set with its save-count ledger, and the
// custom-event collection.
//
// Reads are defensive: a corrupt stored payload degrades to the type's
// empty default instead of failing the pipeline.
package storage

import (
	"context"
	"encoding/json"

	"github.com/bonyoongoo/campusfeed/internal/adapters/kv"
	"github.com/bonyoongoo/campusfeed/pkg/metrics"
)

// Well-known storage keys.
const (
	keyProfile    = "feed:userprefs"
	keySavedIDs   = "feed:saves"
	keySaveCounts = "feed:saveCounts"
	keyCustom     = "feed:customEvents"
)

// readJSON decodes the value at key into out. A missing key or malformed
// payload leaves out untouched and reports false; only the kv layer
// itself can error.
func readJSON(ctx context.Context, store kv.Store, key string, out any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		metrics.RecordStorageCorruption(key)
		return false, nil
	}
	return true, nil
}

// writeJSON encodes v and stores it under key.
func writeJSON(ctx context.Context, store kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(b))
}
