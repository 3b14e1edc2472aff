package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/grid"
)

// ReadJSON decodes a snapshot written by [WriteJSON].
//
// ReadJSON returns an error if:
//   - The JSON is malformed or the version is unknown
//   - The tile rows do not match the configured map size
//   - A room or corridor references a node outside the tree
//   - The restored tree fails [bsp.Tree.Validate]
//
// The config is normalized on load, which restores its derived fields.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dungeon.Dungeon, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", data.Version)
	}

	cfg := data.Config
	cfg.Normalize()

	g, err := decodeTiles(data.Tiles, cfg.Size)
	if err != nil {
		return nil, err
	}

	tree := &bsp.Tree{Nodes: data.Nodes}
	if err := tree.ValidateLinks(); err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	tree.Leaves = tree.Collect(true)
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	for _, room := range data.Rooms {
		if int(room.Node) < 0 || int(room.Node) >= tree.Len() {
			return nil, fmt.Errorf("room %d: unknown node %d", room.ID, room.Node)
		}
	}
	for _, c := range data.Corridors {
		if int(c.Node) < 0 || int(c.Node) >= tree.Len() {
			return nil, fmt.Errorf("corridor: unknown node %d", c.Node)
		}
	}

	return &dungeon.Dungeon{
		Seed:      data.Seed,
		Config:    cfg,
		Tree:      tree,
		Rooms:     data.Rooms,
		Corridors: data.Corridors,
		Skipped:   data.Skipped,
		Adjacent:  data.Adjacent,
		Grid:      g,
		Stats:     data.Stats,
	}, nil
}

// ImportJSON reads a snapshot file at path.
func ImportJSON(path string) (*dungeon.Dungeon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func decodeTiles(rows []string, size grid.Point) (*grid.Grid, error) {
	if len(rows) != size.Y {
		return nil, fmt.Errorf("tiles: %d rows, want %d", len(rows), size.Y)
	}
	g := grid.New(size)
	for y, row := range rows {
		if len(row) != size.X {
			return nil, fmt.Errorf("tiles: row %d has %d cells, want %d", y, len(row), size.X)
		}
		for x := range len(row) {
			v := strings.IndexByte(hexDigits, row[x])
			if v < 0 || grid.Tile(v)&^grid.Solid != 0 {
				return nil, fmt.Errorf("tiles: bad cell %q at (%d,%d)", row[x], x, y)
			}
			g.Set(x, y, grid.Tile(v))
		}
	}
	return g, nil
}
