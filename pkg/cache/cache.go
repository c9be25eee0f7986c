// Package cache provides content-addressed caching for pipeline stages.
//
// The pipeline is deterministic, so every stage result can be memoized by a
// hash of its inputs: built graphs are keyed by the row content, layouts by
// the graph bytes, and rendered artifacts by the layout bytes plus render
// options. Three backends are provided:
//
//   - FileCache: per-user cache directory, used by the CLI
//   - RedisCache: shared cache for the HTTP server
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage. Graphs expire fastest since new seasons append new
// rows; layouts and artifacts are pure functions of their inputs and only
// expire to bound disk usage.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with per-entry TTLs.
// Implementations must treat Get misses as (nil, false, nil), reserving the
// error return for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for each pipeline stage. Keys embed every option
// that affects the stage's output, so differing options never collide.
type Keyer interface {
	GraphKey(rowsHash string) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that influence layout computation.
type LayoutKeyOpts struct {
	VizType string
}

// ArtifactKeyOpts are the options that influence artifact rendering.
type ArtifactKeyOpts struct {
	Format  string
	VizType string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey generates a key for built-graph caching.
func (DefaultKeyer) GraphKey(rowsHash string) string {
	return hashKey("graph", rowsHash)
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts.VizType)
}

// ArtifactKey generates a key for rendered-artifact caching.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format, opts.VizType)
}
