// Package cache stores generated dungeons and rendered artifacts.
//
// A [Cache] is a flat byte store with per-entry expiry. Keys are built by
// a [Keyer] so that every backend (file, Redis, MongoDB) agrees on the
// layout:
//
//	dungeon:<sha256(config, seed)>
//	artifact:<sha256(dungeon key, format, style)>
//
// Backends return (nil, false, nil) on a miss; an error always means the
// store itself failed.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs for cached entries.
const (
	TTLDungeon  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized dungeons and artifacts.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// DungeonKey identifies a generated dungeon by the hash of its
	// normalized configuration and its seed.
	DungeonKey(configHash string, seed uint64) string

	// ArtifactKey identifies one rendering of a dungeon.
	ArtifactKey(dungeonKey string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the rendering parameters that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DungeonKey implements [Keyer].
func (DefaultKeyer) DungeonKey(configHash string, seed uint64) string {
	return hashKey("dungeon", configHash, fmt.Sprint(seed))
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(dungeonKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dungeonKey, opts)
}

// WithTTL returns a Cache that stores every entry with ttl, ignoring the
// TTL passed to Set.
func WithTTL(c Cache, ttl time.Duration) Cache {
	return &ttlCache{Cache: c, ttl: ttl}
}

type ttlCache struct {
	Cache
	ttl time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}

// NullCache stores nothing. It backs the "none" backend and --no-cache:
// every lookup misses, so the pipeline generates and renders each time.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a [NullCache].
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
