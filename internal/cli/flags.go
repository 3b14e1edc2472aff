package cli

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/errors"
)

// generatorFlags overrides generator settings from the config file.
// Only flags the user set are applied.
type generatorFlags struct {
	seed             string
	width, height    int
	depth            int
	spread           float64
	minWidth         int
	minHeight        int
	balanced         bool
	roomMin, roomMax float64
	roomPadding      int
	corridorSize     int
	corridorPadding  int
}

func (f *generatorFlags) register(cmd *cobra.Command) {
	def := bsp.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVarP(&f.seed, "seed", "s", "", "random seed, decimal or 0x hex (default from config, else random)")
	fs.IntVar(&f.width, "width", def.Size.X, "map width in cells")
	fs.IntVar(&f.height, "height", def.Size.Y, "map height in cells")
	fs.IntVarP(&f.depth, "depth", "d", def.Depth, "maximum partition depth")
	fs.Float64Var(&f.spread, "spread", def.RatioSpread, "split ratio spread around 0.5 (0..1)")
	fs.IntVar(&f.minWidth, "min-width", def.NodeMinSize.X, "smallest region width a split may produce")
	fs.IntVar(&f.minHeight, "min-height", def.NodeMinSize.Y, "smallest region height a split may produce")
	fs.BoolVar(&f.balanced, "balanced", def.IsBalanced, "split along the longer axis instead of alternating")
	fs.Float64Var(&f.roomMin, "room-min", def.RoomSizeRatio.Min, "smallest room size ratio")
	fs.Float64Var(&f.roomMax, "room-max", def.RoomSizeRatio.Max, "largest room size ratio")
	fs.IntVar(&f.roomPadding, "room-padding", def.RoomPadding, "gap between a room and its region border")
	fs.IntVar(&f.corridorSize, "corridor-size", def.CorridorSize, "corridor thickness")
	fs.IntVar(&f.corridorPadding, "corridor-padding", def.CorridorPadding, "preferred clearance beside corridors")
}

// apply copies every changed flag onto cfg and normalizes it.
func (f *generatorFlags) apply(cmd *cobra.Command, cfg *bsp.Config) []string {
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Size.X = f.width
	}
	if changed("height") {
		cfg.Size.Y = f.height
	}
	if changed("depth") {
		cfg.Depth = f.depth
	}
	if changed("spread") {
		cfg.RatioSpread = f.spread
	}
	if changed("min-width") {
		cfg.NodeMinSize.X = f.minWidth
	}
	if changed("min-height") {
		cfg.NodeMinSize.Y = f.minHeight
	}
	if changed("balanced") {
		cfg.IsBalanced = f.balanced
	}
	if changed("room-min") {
		cfg.RoomSizeRatio.Min = f.roomMin
	}
	if changed("room-max") {
		cfg.RoomSizeRatio.Max = f.roomMax
	}
	if changed("room-padding") {
		cfg.RoomPadding = f.roomPadding
	}
	if changed("corridor-size") {
		cfg.CorridorSize = f.corridorSize
	}
	if changed("corridor-padding") {
		cfg.CorridorPadding = f.corridorPadding
	}
	return cfg.Normalize()
}

// resolveSeed picks the --seed flag, then the config seed, then a random one.
func (f *generatorFlags) resolveSeed(configured *uint64) (uint64, error) {
	if f.seed != "" {
		return errors.ParseSeed(f.seed)
	}
	if configured != nil {
		return *configured, nil
	}
	return rand.Uint64(), nil
}
