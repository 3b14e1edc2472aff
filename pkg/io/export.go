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

// FormatVersion is written into every snapshot.
const FormatVersion = 1

type snapshot struct {
	Version   int            `json:"version"`
	Seed      uint64         `json:"seed"`
	Config    bsp.Config     `json:"config"`
	Nodes     []bsp.Node     `json:"nodes"`
	Rooms     []bsp.Room     `json:"rooms"`
	Corridors []bsp.Corridor `json:"corridors"`
	Skipped   []bsp.NodeID   `json:"skipped,omitempty"`
	Adjacent  []bsp.NodeID   `json:"adjacent,omitempty"`
	Stats     dungeon.Stats  `json:"stats"`
	Tiles     []string       `json:"tiles"`
}

// WriteJSON encodes a dungeon as JSON and writes it to w.
// Tiles are stored one string per row starting at y=0, one hex digit per
// cell. The output can be re-imported with [ReadJSON].
func WriteJSON(d *dungeon.Dungeon, w io.Writer) error {
	out := snapshot{
		Version:   FormatVersion,
		Seed:      d.Seed,
		Config:    d.Config,
		Nodes:     d.Tree.Nodes,
		Rooms:     d.Rooms,
		Corridors: d.Corridors,
		Skipped:   d.Skipped,
		Adjacent:  d.Adjacent,
		Stats:     d.Stats,
		Tiles:     encodeTiles(d.Grid),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a dungeon to a JSON file at path.
func ExportJSON(d *dungeon.Dungeon, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

const hexDigits = "0123456789abcdef"

func encodeTiles(g *grid.Grid) []string {
	size := g.Size()
	rows := make([]string, size.Y)
	var sb strings.Builder
	for y := range size.Y {
		sb.Reset()
		for _, t := range g.Row(y) {
			sb.WriteByte(hexDigits[t&0xf])
		}
		rows[y] = sb.String()
	}
	return rows
}
