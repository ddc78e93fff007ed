// Package cache stores rendered artifacts so repeated requests for the same
// cards and label spec skip rendering.
//
// Rendering is deterministic, so a cached document is byte-identical to a
// freshly rendered one. Entries live in process memory only; nothing is
// persisted.
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the card list plus the
// options that affect output:
//
//	key := keyer.ArtifactKey(cardsHash, cache.ArtifactKeyOpts{
//	    Format: "pdf", Width: 450, Height: 150, Font: "sans",
//	})
//
// [ScopedKeyer] prefixes keys with context the options do not carry, such as
// which font data sits behind a font id.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long an assembled document stays cached.
const TTLArtifact = time.Hour

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(cardsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes rendered output.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Font   string `json:"font"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey generates "artifact:<sha256>" from the cards hash and options.
func (DefaultKeyer) ArtifactKey(cardsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", cardsHash, opts)
}
