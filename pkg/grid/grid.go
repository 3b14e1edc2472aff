package grid

// Grid is a W×H array of tiles. The zero value is an empty 0×0 grid; use
// [New] to allocate one.
type Grid struct {
	size       Point
	cells      []Tile
	overwrites int
}

// New allocates a grid of the given size with every cell Empty.
// Negative dimensions are treated as zero.
func New(size Point) *Grid {
	size = size.Max(Point{})
	return &Grid{
		size:  size,
		cells: make([]Tile, size.X*size.Y),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() Point { return g.size }

// Bounds returns the rectangle covering every cell.
func (g *Grid) Bounds() Rect {
	return Rect{End: g.size.Sub(Point{1, 1})}
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size.X && y < g.size.Y
}

// Get returns the tile at (x, y). Out-of-bounds queries return Empty.
func (g *Grid) Get(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.cells[y*g.size.X+x]
}

// Set paints a single cell. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, t Tile) {
	if !g.InBounds(x, y) {
		return
	}
	i := y*g.size.X + x
	if g.cells[i] != Empty && t != Empty {
		g.overwrites++
	}
	g.cells[i] = t
}

// FillRectangle paints every cell of the inclusive rectangle [start, end].
// The caller guarantees start <= end on both axes; cells falling outside
// the grid are skipped.
func (g *Grid) FillRectangle(t Tile, start, end Point) {
	for y := max(start.Y, 0); y <= min(end.Y, g.size.Y-1); y++ {
		for x := max(start.X, 0); x <= min(end.X, g.size.X-1); x++ {
			g.Set(x, y, t)
		}
	}
}

// Overwrites returns how many non-empty cells have been repainted with a
// non-empty tile since the grid was created.
func (g *Grid) Overwrites() int { return g.overwrites }

// Count returns the number of cells holding exactly t.
func (g *Grid) Count(t Tile) int {
	n := 0
	for _, c := range g.cells {
		if c == t {
			n++
		}
	}
	return n
}

// Row returns a copy of row y, ordered by increasing X.
func (g *Grid) Row(y int) []Tile {
	if y < 0 || y >= g.size.Y {
		return nil
	}
	row := make([]Tile, g.size.X)
	copy(row, g.cells[y*g.size.X:(y+1)*g.size.X])
	return row
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{size: g.size, overwrites: g.overwrites, cells: make([]Tile, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
