package grid

import "strings"

// Tile is the state of a single grid cell. Values combine as bit flags.
type Tile uint8

const (
	// Empty is an unpainted cell.
	Empty Tile = 0
	// Room marks a cell inside a room.
	Room Tile = 1 << 0
	// Corridor marks a cell carved by corridor routing.
	Corridor Tile = 1 << 1
	// Door marks a doorway cell.
	Door Tile = 1 << 2

	// Solid matches every non-empty tile.
	Solid = Room | Corridor | Door
)

var tileNames = []struct {
	tile Tile
	name string
}{
	{Room, "room"},
	{Corridor, "corridor"},
	{Door, "door"},
}

// In reports whether t is contained in mask. Empty is never contained in
// any mask.
func (t Tile) In(mask Tile) bool {
	return t != Empty && mask&t == t
}

// String returns a readable name, joining flags with "|".
func (t Tile) String() string {
	if t == Empty {
		return "empty"
	}
	if t == Solid {
		return "solid"
	}
	var parts []string
	for _, tn := range tileNames {
		if t&tn.tile != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// ParseTile resolves a tile name produced by [Tile.String].
func ParseTile(s string) (Tile, bool) {
	switch s {
	case "empty":
		return Empty, true
	case "solid":
		return Solid, true
	}
	var t Tile
	for _, part := range strings.Split(s, "|") {
		found := false
		for _, tn := range tileNames {
			if tn.name == part {
				t |= tn.tile
				found = true
				break
			}
		}
		if !found {
			return Empty, false
		}
	}
	return t, true
}
