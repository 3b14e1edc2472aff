package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bspgen/pkg/cache"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/errors"
	bspio "github.com/matzehuels/bspgen/pkg/io"
	"github.com/matzehuels/bspgen/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDungeon  = "dungeon"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("seed", opts.Seed)

	key := r.Keyer.DungeonKey(opts.ConfigHash(), opts.Seed)
	result := &Result{Seed: opts.Seed, Key: key}

	// Every artifact cached: no generation needed.
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, key, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			logger.Debug("artifacts from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	genStart := time.Now()
	d, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Dungeon = d
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.DungeonHit = hit

	logger.Info("generated dungeon",
		"rooms", d.Stats.Rooms,
		"corridors", d.Stats.Corridors,
		"skipped", d.Stats.Skipped,
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	renderStart := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, d, opts)
	observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		if !opts.cacheable(format) {
			continue
		}
		r.set(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(key, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo returns the dungeon for opts, reading the
// snapshot from the cache when present, and reports whether it was a hit.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*dungeon.Dungeon, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.DungeonKey(opts.ConfigHash(), opts.Seed)

	if !opts.Refresh {
		if data, hit := r.get(ctx, keyTypeDungeon, key); hit {
			d, err := bspio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				return d, true, nil
			}
			// Corrupt snapshot: drop it and regenerate.
			opts.Logger.Warn("discarding cached dungeon", "key", key, "err", err)
			_ = r.Cache.Delete(ctx, key)
		}
	}

	d, err := dungeon.GenerateContext(ctx, opts.Config, opts.Seed,
		dungeon.WithLogger(opts.Logger),
		dungeon.WithDebug(opts.Debug))
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := bspio.WriteJSON(d, &buf); err == nil {
		r.set(ctx, keyTypeDungeon, key, buf.Bytes(), cache.TTLDungeon)
	}
	return d, false, nil
}

// Generate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*dungeon.Dungeon, error) {
	d, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return d, err
}

// ExecuteBatch runs Execute for every seed with at most workers runs in
// flight. Each run is itself single-threaded; results are returned in
// seed order. The first error cancels the remaining runs.
func (r *Runner) ExecuteBatch(ctx context.Context, opts Options, seeds []uint64, workers int) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			o := opts
			o.Seed = seed
			res, err := r.Execute(gctx, o)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			if opts.Progress != nil {
				opts.Progress(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// cachedArtifacts returns all requested artifacts if every one of them
// is cached.
func (r *Runner) cachedArtifacts(ctx context.Context, key string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if !opts.cacheable(format) {
			return nil, false
		}
		data, hit := r.get(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(key, opts.ArtifactKeyOpts(format)))
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// get reads from the cache; backend errors are logged and treated as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", errors.Wrap(errors.ErrCodeCache, err, "get %s", keyType))
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", errors.Wrap(errors.ErrCodeCache, err, "set %s", keyType))
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
