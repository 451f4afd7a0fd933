// Package kv defines the key-value persistence port the typed stores
// write through. Implementations carry raw strings only; JSON encoding
// and corruption handling live with the callers.
package kv

import "context"

// Store is the persistence collaborator contract.
type Store interface {
	// Get returns the stored value for key and whether it existed.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
