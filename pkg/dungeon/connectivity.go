package dungeon

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/grid"
)

// Connectivity describes how the painted cells split into 4-connected
// regions. Skipped joins show up as extra components.
type Connectivity struct {
	// Components lists the room ids of each region holding at least one
	// room, ordered by the lowest room id.
	Components [][]bsp.RoomID `json:"components"`
}

// Connected reports whether every room is reachable from every other.
func (c Connectivity) Connected() bool { return len(c.Components) <= 1 }

// Connectivity flood-fills the solid cells of the grid starting from each
// room in order.
func (d *Dungeon) Connectivity() Connectivity {
	var out Connectivity
	seen := mapset.New[grid.Point]()
	owner := make(map[grid.Point]int)

	for _, room := range d.Rooms {
		if seen.Has(room.Start) {
			c := owner[room.Start]
			out.Components[c] = append(out.Components[c], room.ID)
			continue
		}
		id := len(out.Components)
		out.Components = append(out.Components, []bsp.RoomID{room.ID})
		for _, p := range flood(d.Grid, room.Start, seen) {
			owner[p] = id
		}
	}
	return out
}

var neighbours = [4]grid.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

func flood(g *grid.Grid, from grid.Point, seen mapset.Set[grid.Point]) []grid.Point {
	region := []grid.Point{from}
	seen.Put(from)
	for i := 0; i < len(region); i++ {
		p := region[i]
		for _, n := range neighbours {
			next := p.Add(n)
			if seen.Has(next) || !g.Get(next.X, next.Y).In(grid.Solid) {
				continue
			}
			seen.Put(next)
			region = append(region, next)
		}
	}
	return region
}
