// Package cache stores generated progressions and rendered artifacts so
// repeated CLI runs over an unchanged definition skip the graph walks.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis server, for teams generating from CI
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from the content hash of the definition file
// and every option that changes the output. Two runs that would produce the
// same bytes therefore share an entry, and editing the definition file
// invalidates everything derived from it.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default lifetimes. Entries are content addressed, so the TTLs only bound
// disk and memory use.
const (
	TTLProgression = 7 * 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
)
