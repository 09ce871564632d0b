// Package cache provides key/value storage for blocktower artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between `serve` replicas
//
// Keys are produced by a [Keyer] so that every consumer derives the same key
// for the same input. Loaded transaction sets are keyed by source, scene
// layouts by the hash of their transactions and scene options, and rendered
// artifacts by the hash of the layout plus the output format.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry kind.
const (
	// TTLSource bounds how long a loaded transaction set is reused. Mempool
	// contents change every few seconds, so this stays short.
	TTLSource = 30 * time.Second

	// TTLLayout applies to packed scene layouts, which are deterministic.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG and JSON output.
	TTLArtifact = 7 * 24 * time.Hour
)
