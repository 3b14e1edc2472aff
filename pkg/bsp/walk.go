package bsp

import "github.com/matzehuels/bspgen/pkg/grid"

// Hit is the outcome of a [Walk].
type Hit struct {
	// Pos is the last cell visited before the walk was stopped by a tile
	// in the mask or by the grid border. When OK is false it is the last
	// cell examined.
	Pos grid.Point
	OK  bool
}

// Walk steps from start in direction dir, one cell at a time, until the
// next cell is outside the canvas or holds a tile in mask. The start cell
// itself is never tested. After maxSteps steps without a stop the walk
// gives up and returns OK=false.
func Walk(c Canvas, start, dir grid.Point, mask grid.Tile, maxSteps int) Hit {
	size := c.Size()
	pos := start
	for range maxSteps {
		pos = pos.Add(dir)
		if pos.X < 0 || pos.Y < 0 || pos.X >= size.X || pos.Y >= size.Y {
			return Hit{Pos: pos.Sub(dir), OK: true}
		}
		if c.Get(pos.X, pos.Y).In(mask) {
			return Hit{Pos: pos.Sub(dir), OK: true}
		}
	}
	return Hit{Pos: pos}
}
