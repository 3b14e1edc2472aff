package bsp

import (
	"fmt"
	"math"

	"github.com/matzehuels/bspgen/pkg/grid"
)

// NodeID addresses a node in a [Tree] arena.
type NodeID int

// NoNode marks an absent parent or child.
const NoNode NodeID = -1

// RoomID addresses a room in the slice returned by [PlaceRooms].
type RoomID int

// NoRoom marks a leaf whose room has not been placed yet.
const NoRoom RoomID = -1

// Vec is a real-valued position. Region centers sit on half cells when
// the region extent is odd.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) axis(a grid.Axis) float64 {
	if a == grid.X {
		return v.X
	}
	return v.Y
}

func (v Vec) withAxis(a grid.Axis, f float64) Vec {
	if a == grid.X {
		v.X = f
	} else {
		v.Y = f
	}
	return v
}

// Node is one region of the partition.
type Node struct {
	ID     NodeID     `json:"id"`
	Parent NodeID     `json:"parent"`
	Center Vec        `json:"center"`
	Size   grid.Point `json:"size"`
	// Depth counts remaining splits: the root holds Config.Depth, leaves
	// created by exhausting the depth hold 0.
	Depth int `json:"depth"`
	// SplitVertical is meaningful only for internal nodes. A vertical
	// split places the children side by side along X.
	SplitVertical bool      `json:"split_vertical"`
	Children      [2]NodeID `json:"children"`
	Room          RoomID    `json:"room"`
	// RoomRange bounds every room in the subtree. Set by corridor routing.
	RoomRange grid.Rect `json:"room_range"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Children[0] == NoNode }

// Bounds returns the integer cell rectangle covered by the region.
func (n *Node) Bounds() grid.Rect {
	start := grid.Pt(
		int(math.Floor(n.Center.X-float64(n.Size.X)*0.5)),
		int(math.Floor(n.Center.Y-float64(n.Size.Y)*0.5)),
	)
	return grid.Rect{Start: start, End: start.Add(n.Size).Sub(grid.Pt(1, 1))}
}

// splitAxis is the axis along which the children are laid out.
func (n *Node) splitAxis() grid.Axis {
	if n.SplitVertical {
		return grid.X
	}
	return grid.Y
}

// Tree is a binary space partition stored as an arena. Node 0 is the root.
type Tree struct {
	Nodes []Node
	// Leaves lists every leaf in breadth-first order, child 0 before
	// child 1. Room placement, and everything downstream of it, follows
	// this order.
	Leaves []NodeID
}

// Root returns the root node id.
func (t *Tree) Root() NodeID { return 0 }

// Node returns a pointer into the arena. The pointer is invalidated by any
// call that grows the arena.
func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Generate builds the partition of a cfg.Size map down to cfg.Depth. cfg
// must already be normalized. Random draws happen depth-first, child 0
// before child 1.
func Generate(cfg Config, rng Rand) *Tree {
	t := &Tree{Nodes: make([]Node, 0, 1<<min(cfg.Depth+1, 12))}
	root := t.add(NoNode, Vec{float64(cfg.Size.X) * 0.5, float64(cfg.Size.Y) * 0.5}, cfg.Size, cfg.Depth)
	t.split(root, rng.Float64() > 0.5, &cfg, rng)
	t.Leaves = t.Collect(true)
	return t
}

func (t *Tree) add(parent NodeID, center Vec, size grid.Point, depth int) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{
		ID:       id,
		Parent:   parent,
		Center:   center,
		Size:     size,
		Depth:    depth,
		Children: [2]NodeID{NoNode, NoNode},
		Room:     NoRoom,
	})
	return id
}

func (t *Tree) split(id NodeID, vertical bool, cfg *Config, rng Rand) {
	n := t.Nodes[id]
	if n.Depth == 0 {
		return
	}
	if cfg.IsBalanced {
		vertical = n.Size.X > n.Size.Y
	}

	axis := grid.Y
	if vertical {
		axis = grid.X
	}
	axisSize := n.Size.Axis(axis)
	minSize := cfg.NodeMinSize.Axis(axis)
	if axisSize < minSize*2 {
		return
	}

	// Vertical case shown; swap x and y for horizontal splits.
	//
	//   |<-- size0 -->|<-------- size1 -------->|
	//   |      c0     |     c        c1         |
	//   ^ start
	ratio := floatRange(rng, cfg.MinRatio, cfg.MaxRatio)
	start := math.Floor(n.Center.axis(axis) - float64(axisSize)*0.5)
	size0 := int(math.Round(ratio*float64(axisSize-minSize*2))) + minSize
	size1 := axisSize - size0
	pos0 := start + float64(size0)*0.5
	pos1 := start + float64(size0) + float64(size1)*0.5

	c0 := t.add(id, n.Center.withAxis(axis, pos0), n.Size.WithAxis(axis, size0), n.Depth-1)
	c1 := t.add(id, n.Center.withAxis(axis, pos1), n.Size.WithAxis(axis, size1), n.Depth-1)
	t.Nodes[id].SplitVertical = vertical
	t.Nodes[id].Children = [2]NodeID{c0, c1}

	t.split(c0, !vertical, cfg, rng)
	t.split(c1, !vertical, cfg, rng)
}

// Collect returns node ids in breadth-first order. With onlyLeaves set,
// internal nodes are skipped.
func (t *Tree) Collect(onlyLeaves bool) []NodeID {
	if len(t.Nodes) == 0 {
		return nil
	}
	var out []NodeID
	queue := []NodeID{t.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := &t.Nodes[id]
		if n.IsLeaf() {
			out = append(out, id)
			continue
		}
		queue = append(queue, n.Children[0], n.Children[1])
		if !onlyLeaves {
			out = append(out, id)
		}
	}
	return out
}

// PostOrder calls fn for every node, children before their parent, child 0
// before child 1.
func (t *Tree) PostOrder(fn func(id NodeID)) {
	if len(t.Nodes) == 0 {
		return
	}
	var visit func(NodeID)
	visit = func(id NodeID) {
		if n := &t.Nodes[id]; !n.IsLeaf() {
			visit(n.Children[0])
			visit(n.Children[1])
		}
		fn(id)
	}
	visit(t.Root())
}

// Height returns the number of levels below the root.
func (t *Tree) Height() int {
	h := 0
	for _, id := range t.Leaves {
		d := 0
		for p := t.Nodes[id].Parent; p != NoNode; p = t.Nodes[p].Parent {
			d++
		}
		h = max(h, d)
	}
	return h
}

// Validate checks the structural invariants of the partition: every node
// has zero or two children, children exactly tile their parent, depth
// drops by one per level and never goes negative, parent links agree with
// child links, and Leaves lists every leaf exactly once.
func (t *Tree) Validate() error {
	if err := t.ValidateLinks(); err != nil {
		return err
	}
	leaves := 0
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Depth < 0 {
			return fmt.Errorf("node %d: negative depth %d", i, n.Depth)
		}
		c0, c1 := n.Children[0], n.Children[1]
		if (c0 == NoNode) != (c1 == NoNode) {
			return fmt.Errorf("node %d: exactly one child", i)
		}
		if c0 == NoNode {
			leaves++
			continue
		}
		if n.Room != NoRoom {
			return fmt.Errorf("node %d: internal node holds room %d", i, n.Room)
		}
		for _, c := range n.Children {
			child := &t.Nodes[c]
			if child.Parent != n.ID {
				return fmt.Errorf("node %d: child %d has parent %d", i, c, child.Parent)
			}
			if child.Depth != n.Depth-1 {
				return fmt.Errorf("node %d: child %d depth %d, want %d", i, c, child.Depth, n.Depth-1)
			}
		}
		if err := checkTiling(n, &t.Nodes[c0], &t.Nodes[c1]); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	if leaves != len(t.Leaves) {
		return fmt.Errorf("leaf list has %d entries, tree has %d leaves", len(t.Leaves), leaves)
	}
	seen := make(map[NodeID]bool, len(t.Leaves))
	for _, id := range t.Leaves {
		if seen[id] || !t.Nodes[id].IsLeaf() {
			return fmt.Errorf("leaf list: bad entry %d", id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateLinks checks that parent and child ids form a tree rooted at
// node 0. Nodes are numbered parent before child, so every child id is
// larger than its parent's and smaller than Len. Traversals such as
// [Tree.Collect] are only safe on trees that pass this check.
func (t *Tree) ValidateLinks() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	if t.Nodes[0].Parent != NoNode {
		return fmt.Errorf("root has parent %d", t.Nodes[0].Parent)
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.ID != NodeID(i) {
			return fmt.Errorf("node %d: id mismatch %d", i, n.ID)
		}
		if i > 0 {
			p := n.Parent
			if p < 0 || int(p) >= i {
				return fmt.Errorf("node %d: parent %d out of range", i, p)
			}
			if c := t.Nodes[p].Children; c[0] != n.ID && c[1] != n.ID {
				return fmt.Errorf("node %d: not a child of its parent %d", i, p)
			}
		}
		for _, c := range n.Children {
			if c == NoNode {
				continue
			}
			if int(c) <= i || int(c) >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
		}
		if n.Children[0] != NoNode && n.Children[0] == n.Children[1] {
			return fmt.Errorf("node %d: duplicate child %d", i, n.Children[0])
		}
	}
	return nil
}

func checkTiling(parent, c0, c1 *Node) error {
	p, a, b := parent.Bounds(), c0.Bounds(), c1.Bounds()
	axis := parent.splitAxis()
	cross := axis.Other()
	if a.Start.Axis(cross) != p.Start.Axis(cross) || a.End.Axis(cross) != p.End.Axis(cross) ||
		b.Start.Axis(cross) != p.Start.Axis(cross) || b.End.Axis(cross) != p.End.Axis(cross) {
		return fmt.Errorf("children %v %v do not span parent %v on %s", a, b, p, cross)
	}
	if a.Start.Axis(axis) != p.Start.Axis(axis) || a.End.Axis(axis)+1 != b.Start.Axis(axis) ||
		b.End.Axis(axis) != p.End.Axis(axis) {
		return fmt.Errorf("children %v %v do not tile parent %v on %s", a, b, p, axis)
	}
	return nil
}
