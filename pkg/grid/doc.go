// Package grid provides the occupancy grid that dungeon generation paints
// into and queries.
//
// # Tiles
//
// Each cell holds a [Tile], a small bit-flag set:
//
//   - [Empty]: nothing painted (the zero value)
//   - [Room], [Corridor], [Door]: one flag each
//   - [Solid]: the union of all non-empty flags, used as a query mask
//
// Membership tests go through [Tile.In]. Empty never matches a mask, even
// though its bit pattern is contained in every mask.
//
// # Coordinates
//
// Cells are addressed by integer [Point] values with the origin at (0, 0)
// and X growing right, Y growing up. [Rect] is an inclusive rectangle:
// both Start and End name painted cells.
//
// # Overwrites
//
// [Grid.FillRectangle] counts every cell it paints that already held a
// non-empty tile. Generation assumes rooms are pairwise disjoint and that
// corridors never repaint earlier corridors; [Grid.Overwrites] makes that
// assumption observable in tests and debug runs.
//
// A Grid is not safe for concurrent use.
package grid
