package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTileIn(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		mask Tile
		want bool
	}{
		{"room in solid", Room, Solid, true},
		{"corridor in solid", Corridor, Solid, true},
		{"door in solid", Door, Solid, true},
		{"empty never matches solid", Empty, Solid, false},
		{"empty never matches empty", Empty, Empty, false},
		{"room not in corridor", Room, Corridor, false},
		{"room in room|door", Room, Room | Door, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.tile.In(tt.mask))
		})
	}
}

func TestTileStringRoundTrip(t *testing.T) {
	for _, tile := range []Tile{Empty, Room, Corridor, Door, Solid, Room | Door} {
		got, ok := ParseTile(tile.String())
		require.True(t, ok, "parse %q", tile.String())
		require.Equal(t, tile, got)
	}
	_, ok := ParseTile("lava")
	require.False(t, ok)
}

func TestNewIsEmpty(t *testing.T) {
	g := New(Pt(4, 3))
	require.Equal(t, Pt(4, 3), g.Size())
	require.Equal(t, 12, g.Count(Empty))
	require.Equal(t, Rect{Start: Pt(0, 0), End: Pt(3, 2)}, g.Bounds())
}

func TestFillRectangleInclusive(t *testing.T) {
	g := New(Pt(5, 5))
	g.FillRectangle(Room, Pt(1, 1), Pt(2, 3))

	require.Equal(t, 6, g.Count(Room))
	require.Equal(t, Room, g.Get(1, 1))
	require.Equal(t, Room, g.Get(2, 3))
	require.Equal(t, Empty, g.Get(3, 3))
	require.Equal(t, Empty, g.Get(0, 0))
	require.Zero(t, g.Overwrites())
}

func TestFillRectangleClipsToBounds(t *testing.T) {
	g := New(Pt(3, 3))
	g.FillRectangle(Corridor, Pt(-2, 1), Pt(10, 1))
	require.Equal(t, 3, g.Count(Corridor))
	require.Equal(t, Empty, g.Get(-1, 1))
}

func TestOverwritesCounted(t *testing.T) {
	g := New(Pt(4, 4))
	g.FillRectangle(Room, Pt(0, 0), Pt(1, 1))
	g.FillRectangle(Corridor, Pt(1, 1), Pt(2, 1))
	require.Equal(t, 1, g.Overwrites())

	// Clearing is not an overwrite.
	g.FillRectangle(Empty, Pt(0, 0), Pt(3, 3))
	require.Equal(t, 1, g.Overwrites())
}

func TestRowAndClone(t *testing.T) {
	g := New(Pt(3, 2))
	g.Set(1, 1, Door)
	require.Equal(t, []Tile{Empty, Door, Empty}, g.Row(1))
	require.Nil(t, g.Row(2))

	c := g.Clone()
	c.Set(0, 0, Room)
	require.Equal(t, Empty, g.Get(0, 0))
	require.Equal(t, Room, c.Get(0, 0))
}

func TestRectHelpers(t *testing.T) {
	a := Rect{Start: Pt(0, 0), End: Pt(2, 2)}
	b := Rect{Start: Pt(4, 1), End: Pt(5, 6)}

	require.Equal(t, Rect{Start: Pt(0, 0), End: Pt(5, 6)}, a.Union(b))
	require.False(t, a.Overlaps(b))
	require.True(t, a.Union(b).ContainsRect(b))
	require.Equal(t, 3, a.Width())
	require.Equal(t, 6, b.Height())
	require.True(t, Rect{Start: Pt(3, 0), End: Pt(2, 0)}.Empty())
}

func TestPointAxis(t *testing.T) {
	p := Pt(3, 7)
	require.Equal(t, 3, p.Axis(X))
	require.Equal(t, 7, p.Axis(Y))
	require.Equal(t, Pt(3, 9), p.WithAxis(Y, 9))
	require.Equal(t, Pt(-1, 0), Step(X, true))
	require.Equal(t, Pt(0, 1), Step(Y, false))
	require.Equal(t, Y, X.Other())
}
