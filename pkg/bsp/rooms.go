package bsp

import (
	"fmt"
	"math"

	"github.com/matzehuels/bspgen/pkg/grid"
)

// Canvas is the occupancy grid as seen by the generator. *grid.Grid
// implements it.
type Canvas interface {
	FillRectangle(t grid.Tile, start, end grid.Point)
	Get(x, y int) grid.Tile
	Size() grid.Point
}

// Room is an axis-aligned rectangle of cells owned by exactly one leaf.
// Start and End are inclusive.
type Room struct {
	ID    RoomID     `json:"id"`
	Node  NodeID     `json:"node"`
	Start grid.Point `json:"start"`
	End   grid.Point `json:"end"`
}

// Rect returns the room as a grid rectangle.
func (r Room) Rect() grid.Rect { return grid.Rect{Start: r.Start, End: r.End} }

// Size returns the room extent in cells.
func (r Room) Size() grid.Point { return r.End.Sub(r.Start).Add(grid.Pt(1, 1)) }

// PlaceRooms derives one room per leaf, in t.Leaves order, links it to its
// leaf and paints it onto canvas. Per leaf the random draws are: size
// ratio, X offset, Y offset.
func PlaceRooms(t *Tree, cfg Config, rng Rand, canvas Canvas) []Room {
	rooms := make([]Room, 0, len(t.Leaves))
	pad := grid.Pt(cfg.RoomPadding*2, cfg.RoomPadding*2)

	for _, id := range t.Leaves {
		leaf := t.Node(id)

		maxSize := leaf.Size.Sub(pad).Max(grid.Pt(1, 1))
		ratio := floatRange(rng, cfg.RoomSizeRatio.Min, cfg.RoomSizeRatio.Max)
		size := grid.Pt(
			int(math.Floor(float64(maxSize.X)*ratio)),
			int(math.Floor(float64(maxSize.Y)*ratio)),
		).Max(grid.Pt(1, 1))

		slack := leaf.Size.Sub(size).Sub(pad)
		slack = grid.Pt(max(slack.X/2, 0), max(slack.Y/2, 0))
		offset := grid.Pt(
			intRange(rng, -slack.X, slack.X),
			intRange(rng, -slack.Y, slack.Y),
		)
		center := Vec{leaf.Center.X + float64(offset.X), leaf.Center.Y + float64(offset.Y)}

		for _, a := range []grid.Axis{grid.X, grid.Y} {
			s, c := size.Axis(a), center.axis(a)
			isInt := c == math.Trunc(c)
			switch {
			case s%2 == 0 && !isInt:
				size = size.WithAxis(a, s+1)
			case s%2 == 1 && isInt:
				center = center.withAxis(a, c+0.5)
			}
		}

		room := newRoom(t, RoomID(len(rooms)), id, center, size)
		rooms = append(rooms, room)
		canvas.FillRectangle(grid.Room, room.Start, room.End)
	}
	return rooms
}

// newRoom builds the room rectangle and links it to its leaf. Assigning a
// second room, or a room to an internal node, is a programming error.
func newRoom(t *Tree, rid RoomID, id NodeID, center Vec, size grid.Point) Room {
	n := t.Node(id)
	if !n.IsLeaf() {
		panic(fmt.Sprintf("bsp: room assigned to internal node %d", id))
	}
	if n.Room != NoRoom {
		panic(fmt.Sprintf("bsp: node %d already holds room %d", id, n.Room))
	}
	start := grid.Pt(
		int(math.Floor(center.X-float64(size.X)*0.5)),
		int(math.Floor(center.Y-float64(size.Y)*0.5)),
	)
	n.Room = rid
	return Room{
		ID:    rid,
		Node:  id,
		Start: start,
		End:   start.Add(size).Sub(grid.Pt(1, 1)),
	}
}
