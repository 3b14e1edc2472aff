package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/cache"
	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/grid"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Nil(t, cfg.Seed)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse(`
seed = 7

[generator]
size = { x = 80, y = 40 }
depth = 3

[cache]
backend = "redis"
ttl = "1h"

[cache.redis]
addr = "localhost:6379"
db = 2

[server]
addr = ":9000"
`)
	require.NoError(t, err)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, grid.Pt(80, 40), cfg.Generator.Size)
	assert.Equal(t, 3, cfg.Generator.Depth)
	// Untouched keys keep their defaults.
	def := bsp.DefaultConfig()
	assert.Equal(t, def.RoomPadding, cfg.Generator.RoomPadding)
	assert.Equal(t, def.IsBalanced, cfg.Generator.IsBalanced)
	assert.Equal(t, 80, cfg.Generator.MaxAxisSize)

	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestParseClampsGenerator(t *testing.T) {
	cfg, err := Parse(`
[generator]
depth = 99
corridor_size = 0
room_size_ratio = { min = 0.9, max = 0.3 }
`)
	require.NoError(t, err)
	assert.Equal(t, bsp.MaxDepth, cfg.Generator.Depth)
	assert.Equal(t, bsp.MinCorridorSize, cfg.Generator.CorridorSize)
	assert.Equal(t, bsp.Range{Min: 0.3, Max: 0.9}, cfg.Generator.RoomSizeRatio)
}

func TestParseWarnings(t *testing.T) {
	cfg, err := Parse(`
[generator]
node_min_size = { x = 2, y = 2 }
`)
	require.NoError(t, err)
	assert.Len(t, cfg.Warnings, 1)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "seed = "},
		{"unknown top-level key", "colour = 1"},
		{"unknown nested key", "[generator]\ndepht = 3"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"timeout", "[server]\ntimeout = \"-1s\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "code = %s", errors.GetCode(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bspgen.toml")
	require.NoError(t, os.WriteFile(path, []byte("[generator]\ndepth = 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Generator.Depth)

	require.NoError(t, os.WriteFile(path, []byte("bogus = true\n"), 0o644))
	_, err = Load(path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestCacheOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Cache{Backend: BackendFile, Dir: t.TempDir()}.Open(ctx, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, c)

	c, err = Cache{Backend: BackendFile, Dir: t.TempDir()}.Open(ctx, true)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, c)

	c, err = Cache{Backend: BackendNone}.Open(ctx, false)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, c)

	c, err = Cache{Backend: BackendFile, Dir: t.TempDir(), TTL: "1h"}.Open(ctx, false)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = Cache{Backend: BackendRedis}.Open(ctx, false)
	assert.True(t, errors.Is(err, errors.ErrCodeCache))
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "bspgen.toml"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(2024), *cfg.Seed)
	assert.Equal(t, grid.Pt(96, 48), cfg.Generator.Size)
	assert.Equal(t, "bspgen", cfg.Cache.Mongo.Database)
	assert.Empty(t, cfg.Warnings)
}
