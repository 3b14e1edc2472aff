package bsp

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bspgen/pkg/grid"
)

var discard = log.New(io.Discard)

// Corridor is a rectangle carved between the two subtrees of an internal
// node. Start and End are inclusive.
type Corridor struct {
	Node  NodeID     `json:"node"`
	Start grid.Point `json:"start"`
	End   grid.Point `json:"end"`
	// Aligned is set when the clean-line search found a position where
	// both ends meet flat walls.
	Aligned bool `json:"aligned"`
}

// Rect returns the corridor as a grid rectangle.
func (c Corridor) Rect() grid.Rect { return grid.Rect{Start: c.Start, End: c.End} }

// Routing is the result of [Router.Route].
type Routing struct {
	Corridors []Corridor
	// Skipped lists internal nodes whose children share no cross-axis
	// overlap wide enough for a corridor. Their subtrees stay disconnected
	// at that join.
	Skipped []NodeID
	// Adjacent lists internal nodes whose children's rooms already touch,
	// leaving no gap to carve.
	Adjacent []NodeID
}

// Router connects sibling subtrees bottom-up.
type Router struct {
	Config Config
	Logger *log.Logger
}

// NewRouter returns a router for a normalized config. A nil logger
// discards output.
func NewRouter(cfg Config, logger *log.Logger) *Router {
	return &Router{Config: cfg, Logger: logger}
}

func (r *Router) logger() *log.Logger {
	if r.Logger == nil {
		return discard
	}
	return r.Logger
}

// Route visits t in post-order, fills every node's RoomRange and paints one
// corridor per internal node where the children's rooms overlap on the
// cross axis. rooms must be the slice returned by [PlaceRooms] for t.
// Exactly one random draw is made per routed node.
func (r *Router) Route(t *Tree, rooms []Room, c Canvas, rng Rand) Routing {
	var out Routing
	small, large := r.Config.CorridorPaddings()

	t.PostOrder(func(id NodeID) {
		n := t.Node(id)
		if n.IsLeaf() {
			if n.Room == NoRoom || int(n.Room) >= len(rooms) {
				panic(fmt.Sprintf("bsp: leaf %d has no room", id))
			}
			n.RoomRange = rooms[n.Room].Rect()
			return
		}

		a := t.Node(n.Children[0]).RoomRange
		b := t.Node(n.Children[1]).RoomRange
		n.RoomRange = a.Union(b)

		along := n.splitAxis()
		cross := along.Other()
		lo := max(a.Start.Axis(cross), b.Start.Axis(cross)) + small
		hi := min(a.End.Axis(cross), b.End.Axis(cross)) - large
		if lo > hi {
			r.logger().Debug("no room overlap", "node", id, "axis", cross, "lo", lo, "hi", hi)
			out.Skipped = append(out.Skipped, id)
			return
		}

		p := intRange(rng, lo, hi)
		cand := grid.Rect{
			Start: grid.Point{}.WithAxis(along, a.End.Axis(along)+1).WithAxis(cross, p-small),
			End:   grid.Point{}.WithAxis(along, b.Start.Axis(along)-1).WithAxis(cross, p+large),
		}
		rect, aligned := r.cleanLine(c, cand, along, hi-p, p-lo)
		if rect.Empty() {
			out.Adjacent = append(out.Adjacent, id)
			return
		}
		c.FillRectangle(grid.Corridor, rect.Start, rect.End)
		out.Corridors = append(out.Corridors, Corridor{
			Node:    id,
			Start:   rect.Start,
			End:     rect.End,
			Aligned: aligned,
		})
	})
	return out
}

// cleanLine slides cand across the corridor axis looking for a position
// where the corners on each end hit a wall at the same coordinate. It
// first shifts towards the positive side up to fwd times, then restarts
// and shifts towards the negative side up to back times. The candidate is
// returned unchanged when no position qualifies.
func (r *Router) cleanLine(c Canvas, cand grid.Rect, along grid.Axis, fwd, back int) (grid.Rect, bool) {
	cfg := &r.Config
	toNear, toFar := grid.Step(along, true), grid.Step(along, false)

	if cfg.CorridorSize == 1 && cfg.CorridorPadding == 0 {
		s := r.walk(c, cand.Start, toNear)
		e := r.walk(c, cand.End, toFar)
		return grid.Rect{Start: s.Pos, End: e.Pos}, s.OK && e.OK
	}

	cross := along.Other()
	pad := cfg.CorridorPadding
	lo := cand.Start.Axis(cross) - pad
	hi := cand.End.Axis(cross) + pad
	near, far := cand.Start.Axis(along), cand.End.Axis(along)
	corner := func(a, x int) grid.Point {
		return grid.Point{}.WithAxis(along, a).WithAxis(cross, x)
	}
	level := func(p, q Hit) bool {
		return p.OK && q.OK && p.Pos.Axis(along) == q.Pos.Axis(along)
	}

	try := func(shift int) (grid.Rect, bool) {
		nearLo := r.walk(c, corner(near, lo+shift), toNear)
		nearHi := r.walk(c, corner(near, hi+shift), toNear)
		if !level(nearLo, nearHi) {
			return grid.Rect{}, false
		}
		farLo := r.walk(c, corner(far, lo+shift), toFar)
		farHi := r.walk(c, corner(far, hi+shift), toFar)
		if !level(farLo, farHi) {
			return grid.Rect{}, false
		}
		start := nearLo.Pos.WithAxis(cross, nearLo.Pos.Axis(cross)+pad)
		end := farHi.Pos.WithAxis(cross, farHi.Pos.Axis(cross)-pad)
		return grid.Rect{Start: start, End: end}, true
	}

	for i := range fwd {
		if rect, ok := try(i); ok {
			return rect, true
		}
	}
	for i := range back {
		if rect, ok := try(-i); ok {
			return rect, true
		}
	}
	return cand, false
}

func (r *Router) walk(c Canvas, from, dir grid.Point) Hit {
	h := Walk(c, from, dir, grid.Solid, r.Config.MaxAxisSize)
	if !h.OK {
		r.logger().Error("ray walk exhausted", "from", from, "dir", dir, "steps", r.Config.MaxAxisSize)
	}
	return h
}
