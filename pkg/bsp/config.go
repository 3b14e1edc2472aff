package bsp

import (
	"fmt"

	"github.com/matzehuels/bspgen/pkg/grid"
)

// Limits applied by [Config.Normalize].
const (
	MaxDepth           = 25
	MaxRoomPadding     = 3
	MinCorridorSize    = 1
	MaxCorridorSize    = 5
	MaxCorridorPadding = 3
	MinRoomSizeRatio   = 0.2
	MaxRoomSizeRatio   = 1.0
)

// Range is a closed interval of real numbers.
type Range struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Config drives one generation run. It is read-only while a run is in
// progress. Call [Config.Normalize] before handing a config to the
// generator; the generator itself does not re-validate.
type Config struct {
	// Size is the map size in cells.
	Size grid.Point `json:"size" toml:"size"`
	// Depth is the maximum recursion depth of the partition tree.
	Depth int `json:"depth" toml:"depth"`
	// RatioSpread is the width of the split-ratio interval around 0.5.
	RatioSpread float64 `json:"ratio_spread" toml:"ratio_spread"`
	// NodeMinSize is the smallest region extent a split may produce, per axis.
	NodeMinSize grid.Point `json:"node_min_size" toml:"node_min_size"`
	// IsBalanced splits along the longer axis instead of alternating.
	IsBalanced bool `json:"balanced" toml:"balanced"`

	// RoomSizeRatio scales the padded leaf size to obtain the room size.
	RoomSizeRatio Range `json:"room_size_ratio" toml:"room_size_ratio"`
	// RoomPadding is the minimum gap between a room and its leaf border.
	RoomPadding int `json:"room_padding" toml:"room_padding"`
	// CorridorSize is the corridor thickness on its cross axis.
	CorridorSize int `json:"corridor_size" toml:"corridor_size"`
	// CorridorPadding widens the clean-line search on each side. Preferred,
	// not enforced.
	CorridorPadding int `json:"corridor_padding" toml:"corridor_padding"`

	// Derived by Normalize.
	MinRatio    float64 `json:"-" toml:"-"`
	MaxRatio    float64 `json:"-" toml:"-"`
	MaxAxisSize int     `json:"-" toml:"-"`
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	c := Config{
		Size:            grid.Pt(64, 48),
		Depth:           5,
		RatioSpread:     0.4,
		NodeMinSize:     grid.Pt(8, 8),
		IsBalanced:      true,
		RoomSizeRatio:   Range{Min: 0.6, Max: 0.9},
		RoomPadding:     1,
		CorridorSize:    2,
		CorridorPadding: 1,
	}
	c.Normalize()
	return c
}

// Normalize clamps every field into its valid range, fills the derived
// fields and returns human-readable warnings for settings that are valid
// but likely to produce poor maps.
func (c *Config) Normalize() []string {
	c.Size = c.Size.Max(grid.Pt(1, 1))
	c.NodeMinSize = c.NodeMinSize.Max(grid.Pt(1, 1))
	c.Depth = clamp(c.Depth, 0, MaxDepth)
	c.RatioSpread = max(0, min(c.RatioSpread, 1))
	c.RoomPadding = clamp(c.RoomPadding, 0, MaxRoomPadding)
	c.CorridorSize = clamp(c.CorridorSize, MinCorridorSize, MaxCorridorSize)
	c.CorridorPadding = clamp(c.CorridorPadding, 0, MaxCorridorPadding)

	lo := max(MinRoomSizeRatio, min(c.RoomSizeRatio.Min, MaxRoomSizeRatio))
	hi := max(MinRoomSizeRatio, min(c.RoomSizeRatio.Max, MaxRoomSizeRatio))
	if lo > hi {
		lo, hi = hi, lo
	}
	c.RoomSizeRatio = Range{Min: lo, Max: hi}

	c.MinRatio = 0.5 - c.RatioSpread*0.5
	c.MaxRatio = 0.5 + c.RatioSpread*0.5
	c.MaxAxisSize = max(c.Size.X, c.Size.Y)

	var warnings []string
	need := c.RoomPadding*2 + c.CorridorSize + c.CorridorPadding
	if c.NodeMinSize.X < need || c.NodeMinSize.Y < need {
		warnings = append(warnings, fmt.Sprintf(
			"node_min_size %v is too small to fit room_padding, corridor_size and corridor_padding (need %d)",
			c.NodeMinSize, need))
	}
	return warnings
}

// LeafBound returns an upper bound on the number of leaves a partition of
// c can produce. A leaf is either as wide as the map on an axis or at least
// NodeMinSize there, so leaves never outnumber the smallest such cells that
// tile the map. c must be normalized.
func (c *Config) LeafBound() int {
	cell := min(c.NodeMinSize.X, c.Size.X) * min(c.NodeMinSize.Y, c.Size.Y)
	return min(1<<c.Depth, c.Size.X*c.Size.Y/cell)
}

// CorridorPaddings splits the corridor thickness around its anchor cell:
// large cells on the positive side, small on the negative side.
func (c *Config) CorridorPaddings() (small, large int) {
	large = c.CorridorSize / 2
	small = c.CorridorSize - large - 1
	return small, large
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
