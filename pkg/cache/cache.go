// Package cache stores computed layouts and exports between passes.
//
// Layout passes are deterministic for a given option document and pass
// options, so their serialized results can be reused. The package defines
// the [Cache] storage interface, with backends for the CLI ([FileCache]),
// tests and single-process servers ([MemoryCache]), shared deployments
// ([RedisCache]) and disabled caching ([NullCache]), and the [Keyer] that
// derives cache keys from content hashes.
//
// # Keys
//
// Layout keys hash the option document together with every pass option
// that changes the result:
//
//	key := keyer.LayoutKey(cache.Hash(doc), cache.LayoutKeyOpts{Width: 800, Height: 600})
//
// Export keys hash the serialized layout and the export format, so an
// export is reused whenever an identical layout is exported again.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry
	// is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources of the backend.
	Close() error
}

// Default lifetimes of cached entries.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLExport = 7 * 24 * time.Hour
)

// Key prefixes used by DefaultKeyer.
const (
	PrefixLayout = "layout"
	PrefixExport = "export"
)

// LayoutKeyOpts are the pass options that change a layout result.
type LayoutKeyOpts struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	ChunkSize      int     `json:"chunk_size"`
	LargeThreshold int     `json:"large_threshold,omitempty"`
	ForceSteps     int     `json:"force_steps"`
	Seed           uint64  `json:"seed"`
}

// ExportKeyOpts are the export options that change an export result.
type ExportKeyOpts struct {
	Format   string `json:"format"`
	Series   []int  `json:"series,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of the option document
	// hashing to optionHash.
	LayoutKey(optionHash string, opts LayoutKeyOpts) string

	// ExportKey returns the key of an export of the layout hashing to
	// layoutHash.
	ExportKey(layoutHash string, opts ExportKeyOpts) string
}

// DefaultKeyer builds "prefix:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(optionHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, optionHash, opts)
}

// ExportKey implements Keyer.
func (DefaultKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return hashKey(PrefixExport, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
