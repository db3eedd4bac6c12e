// Package cache stores intermediate and final pipeline results.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the preview server
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys come from a [Keyer] so that every backend sees the same layout.
// Trajectories are keyed by their ephemeris source and sampling, rendered
// artifacts by a hash of the figure plus output format and resolution.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLTrajectory = 30 * 24 * time.Hour
	TTLArtifact   = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TrajectoryKeyOpts identifies a sampled trajectory.
type TrajectoryKeyOpts struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Samples int       `json:"samples"`
}

// ArtifactKeyOpts identifies one rendered output of a figure.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	DPI    float64 `json:"dpi"`
	Native bool    `json:"native,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TrajectoryKey keys a trajectory by the hash of its ephemeris source.
	TrajectoryKey(sourceHash string, opts TrajectoryKeyOpts) string
	// ArtifactKey keys a rendered file by the hash of its figure.
	ArtifactKey(figureHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TrajectoryKey implements Keyer.
func (DefaultKeyer) TrajectoryKey(sourceHash string, opts TrajectoryKeyOpts) string {
	opts.Start, opts.End = opts.Start.UTC(), opts.End.UTC()
	return hashKey("trajectory", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
