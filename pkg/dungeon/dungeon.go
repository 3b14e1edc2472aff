// Package dungeon runs one complete generation: partition, room placement
// and corridor routing over a fresh occupancy grid.
//
// # Usage
//
//	d, err := dungeon.Generate(bsp.DefaultConfig(), 42, dungeon.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d.Stats.Rooms, "rooms")
//
// The same config and seed always produce the same dungeon.
package dungeon

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/grid"
	"github.com/matzehuels/bspgen/pkg/observability"
)

// Work limits checked by [CheckLimits].
const (
	// MaxSide bounds each map axis.
	MaxSide = 4096
	// MaxLeaves bounds the leaf count a config may produce.
	MaxLeaves = 1 << 16
)

// CheckLimits rejects normalized configs whose map or partition would be
// too large to generate.
func CheckLimits(cfg bsp.Config) error {
	if cfg.Size.X > MaxSide || cfg.Size.Y > MaxSide {
		return errors.New(errors.ErrCodeInvalidConfig, "map size %v exceeds %dx%d", cfg.Size, MaxSide, MaxSide)
	}
	if n := cfg.LeafBound(); n > MaxLeaves {
		return errors.New(errors.ErrCodeInvalidConfig,
			"depth %d with node_min_size %v allows %d leaves, limit is %d", cfg.Depth, cfg.NodeMinSize, n, MaxLeaves)
	}
	return nil
}

// Dungeon is the result of one generation run.
type Dungeon struct {
	Seed      uint64
	Config    bsp.Config
	Tree      *bsp.Tree
	Rooms     []bsp.Room
	Corridors []bsp.Corridor
	Skipped   []bsp.NodeID
	Adjacent  []bsp.NodeID
	Grid      *grid.Grid
	Stats     Stats
	// Warnings collects config warnings reported by normalization.
	Warnings []string
}

// Stats summarizes a run.
type Stats struct {
	Nodes         int           `json:"nodes"`
	Leaves        int           `json:"leaves"`
	Height        int           `json:"height"`
	Rooms         int           `json:"rooms"`
	Corridors     int           `json:"corridors"`
	Aligned       int           `json:"aligned"`
	Skipped       int           `json:"skipped"`
	Adjacent      int           `json:"adjacent"`
	RoomCells     int           `json:"room_cells"`
	CorridorCells int           `json:"corridor_cells"`
	Overwrites    int           `json:"overwrites"`
	Partition     time.Duration `json:"partition_ns"`
	Placement     time.Duration `json:"placement_ns"`
	Routing       time.Duration `json:"routing_ns"`
}

type options struct {
	logger *log.Logger
	rng    bsp.Rand
	debug  bool
}

// Option configures Generate.
type Option func(*options)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRand replaces the seeded PCG source. The seed is still recorded on
// the result.
func WithRand(r bsp.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithDebug enables overwrite reporting and per-stage debug logs.
func WithDebug(on bool) Option {
	return func(o *options) { o.debug = on }
}

// Generate builds a dungeon for cfg and seed. cfg is normalized on a copy.
func Generate(cfg bsp.Config, seed uint64, opts ...Option) (*Dungeon, error) {
	return GenerateContext(context.Background(), cfg, seed, opts...)
}

// GenerateContext is Generate with a context for observability hooks and
// early cancellation. Generation itself is not interruptible once started.
func GenerateContext(ctx context.Context, cfg bsp.Config, seed uint64, opts ...Option) (d *Dungeon, err error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = bsp.NewRand(seed)
	}
	logger := o.logger.With("seed", seed)

	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err, "generate")
	}
	warnings := cfg.Normalize()
	if err := CheckLimits(cfg); err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	hooks := observability.Generate()
	hooks.OnGenerateStart(ctx, seed, cfg.Size.X, cfg.Size.Y)
	start := time.Now()
	defer func() {
		rooms, corridors := 0, 0
		if d != nil {
			rooms, corridors = len(d.Rooms), len(d.Corridors)
		}
		hooks.OnGenerateComplete(ctx, seed, rooms, corridors, time.Since(start), err)
	}()

	g := grid.New(cfg.Size)
	var stats Stats

	t0 := time.Now()
	tree := bsp.Generate(cfg, o.rng)
	stats.Partition = time.Since(t0)
	hooks.OnStage(ctx, "partition", stats.Partition)
	logger.Debug("partitioned", "nodes", tree.Len(), "leaves", len(tree.Leaves))

	t0 = time.Now()
	rooms := bsp.PlaceRooms(tree, cfg, o.rng, g)
	stats.Placement = time.Since(t0)
	hooks.OnStage(ctx, "rooms", stats.Placement)
	if o.debug && g.Overwrites() > 0 {
		logger.Error("rooms overlap", "overwrites", g.Overwrites())
	}

	t0 = time.Now()
	routing := bsp.NewRouter(cfg, o.logger).Route(tree, rooms, g, o.rng)
	stats.Routing = time.Since(t0)
	hooks.OnStage(ctx, "corridors", stats.Routing)

	if err := tree.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "partition tree invalid")
	}

	stats.Nodes = tree.Len()
	stats.Leaves = len(tree.Leaves)
	stats.Height = tree.Height()
	stats.Rooms = len(rooms)
	stats.Corridors = len(routing.Corridors)
	stats.Skipped = len(routing.Skipped)
	stats.Adjacent = len(routing.Adjacent)
	for _, c := range routing.Corridors {
		if c.Aligned {
			stats.Aligned++
		}
	}
	stats.RoomCells = g.Count(grid.Room)
	stats.CorridorCells = g.Count(grid.Corridor)
	stats.Overwrites = g.Overwrites()

	if o.debug {
		if stats.Overwrites > 0 {
			logger.Warn("corridor overwrote painted cells", "overwrites", stats.Overwrites)
		}
		logger.Debug("generated",
			"rooms", stats.Rooms,
			"corridors", stats.Corridors,
			"skipped", stats.Skipped,
			"adjacent", stats.Adjacent,
			"aligned", stats.Aligned)
	}

	return &Dungeon{
		Seed:      seed,
		Config:    cfg,
		Tree:      tree,
		Rooms:     rooms,
		Corridors: routing.Corridors,
		Skipped:   routing.Skipped,
		Adjacent:  routing.Adjacent,
		Grid:      g,
		Stats:     stats,
		Warnings:  warnings,
	}, nil
}
