package ports

import (
	"context"
	"time"
)

// Store is a key-value capability used for the persisted session slot and
// pending login attempts. Implementations must treat Set as an atomic
// single-step overwrite: last writer wins, no merge semantics.
type Store interface {
	// Set stores a value under key with an expiry. A non-positive ttl means
	// no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves a value by key. Returns core.ErrNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
