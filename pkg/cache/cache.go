// Package cache stores rendered chart layouts and artifacts.
//
// The [Cache] interface is a byte-oriented key/value store with per-entry
// TTLs. Three backends implement it:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared store for the HTTP server
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are produced by a [Keyer] so the layout of the key space lives in one
// place. [DefaultKeyer] hashes every option that changes the output;
// [ScopedKeyer] prefixes keys so several deployments can share one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for the two kinds of cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a computed chart layout for a dataset.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output format of a layout.
	ArtifactKey(dataHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes the computed layout.
type LayoutKeyOpts struct {
	Width     float64    `json:"w"`
	Height    float64    `json:"h"`
	Margins   [4]float64 `json:"m"`
	Padding   float64    `json:"p"`
	Title     string     `json:"t"`
	XLabel    string     `json:"x"`
	TickCount int        `json:"n"`
}

// ArtifactKeyOpts extends LayoutKeyOpts with sink options.
type ArtifactKeyOpts struct {
	LayoutKeyOpts
	Format      string `json:"f"`
	BarColor    string `json:"c,omitempty"`
	Interactive bool   `json:"i,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

func (DefaultKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dataHash, opts)
}
