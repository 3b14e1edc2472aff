package grid

import "fmt"

// Axis selects the X or Y component of a [Point].
type Axis int

const (
	X Axis = iota
	Y
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis { return 1 - a }

func (a Axis) String() string {
	if a == X {
		return "x"
	}
	return "y"
}

// Point is an integer cell coordinate.
type Point struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Axis returns the component along a.
func (p Point) Axis(a Axis) int {
	if a == X {
		return p.X
	}
	return p.Y
}

// WithAxis returns p with the component along a replaced by v.
func (p Point) WithAxis(a Axis, v int) Point {
	if a == X {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

// Min returns the component-wise minimum.
func (p Point) Min(q Point) Point { return Point{min(p.X, q.X), min(p.Y, q.Y)} }

// Max returns the component-wise maximum.
func (p Point) Max(q Point) Point { return Point{max(p.X, q.X), max(p.Y, q.Y)} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Step returns the unit vector along a, negative when back is set.
func Step(a Axis, back bool) Point {
	d := 1
	if back {
		d = -1
	}
	return Point{}.WithAxis(a, d)
}

// Rect is an inclusive axis-aligned rectangle of cells.
type Rect struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Width is the number of columns covered.
func (r Rect) Width() int { return r.End.X - r.Start.X + 1 }

// Height is the number of rows covered.
func (r Rect) Height() int { return r.End.Y - r.Start.Y + 1 }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.End.X < r.Start.X || r.End.Y < r.Start.Y }

// Union returns the bounding rectangle of r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{Start: r.Start.Min(s.Start), End: r.End.Max(s.End)}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Start.X && p.X <= r.End.X && p.Y >= r.Start.Y && p.Y <= r.End.Y
}

// ContainsRect reports whether s lies entirely inside r.
func (r Rect) ContainsRect(s Rect) bool {
	return r.Contains(s.Start) && r.Contains(s.End)
}

// Overlaps reports whether r and s share at least one cell.
func (r Rect) Overlaps(s Rect) bool {
	return r.Start.X <= s.End.X && s.Start.X <= r.End.X &&
		r.Start.Y <= s.End.Y && s.Start.Y <= r.End.Y
}

func (r Rect) String() string { return fmt.Sprintf("[%v..%v]", r.Start, r.End) }
