package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
)

func generate(t *testing.T, seed uint64) *dungeon.Dungeon {
	t.Helper()
	d, err := dungeon.Generate(bsp.DefaultConfig(), seed)
	require.NoError(t, err)
	return d
}

func TestRoundTrip(t *testing.T) {
	d := generate(t, 77)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)

	require.Equal(t, d.Seed, got.Seed)
	require.Equal(t, d.Config, got.Config)
	require.Equal(t, d.Tree, got.Tree)
	require.Equal(t, d.Rooms, got.Rooms)
	require.Equal(t, d.Corridors, got.Corridors)
	require.Equal(t, d.Stats, got.Stats)
	require.Equal(t, d.Grid.Size(), got.Grid.Size())
	for y := range d.Grid.Size().Y {
		require.Equal(t, d.Grid.Row(y), got.Grid.Row(y), "row %d", y)
	}
}

func TestExportImportFile(t *testing.T) {
	d := generate(t, 3)
	path := filepath.Join(t.TempDir(), "dungeon.json")

	require.NoError(t, ExportJSON(d, path))
	got, err := ImportJSON(path)
	require.NoError(t, err)
	require.Equal(t, d.Rooms, got.Rooms)

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "open")
}

func TestTilesEncoding(t *testing.T) {
	d := generate(t, 11)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))

	var raw struct {
		Version int      `json:"version"`
		Tiles   []string `json:"tiles"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Equal(t, FormatVersion, raw.Version)
	require.Len(t, raw.Tiles, d.Config.Size.Y)
	for _, row := range raw.Tiles {
		require.Len(t, row, d.Config.Size.X)
		require.Empty(t, strings.Trim(row, "0123"))
	}
}

func TestReadJSONRejects(t *testing.T) {
	d := generate(t, 5)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))
	valid := buf.String()

	mutate := func(fn func(m map[string]any)) string {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(valid), &m))
		fn(m)
		b, err := json.Marshal(m)
		require.NoError(t, err)
		return string(b)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", "{", "decode"},
		{"version", mutate(func(m map[string]any) { m["version"] = 9 }), "version"},
		{"rows", mutate(func(m map[string]any) { m["tiles"] = []string{"0"} }), "rows"},
		{"cell", mutate(func(m map[string]any) {
			rows := m["tiles"].([]any)
			row := rows[0].(string)
			rows[0] = "z" + row[1:]
		}), "bad cell"},
		{"tree", mutate(func(m map[string]any) {
			nodes := m["nodes"].([]any)
			nodes[0].(map[string]any)["parent"] = 3
		}), "tree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReadJSONRejectsBadLinks(t *testing.T) {
	d := generate(t, 5)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))

	withRoot := func(children []int) string {
		var m map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
		root := m["nodes"].([]any)[0].(map[string]any)
		root["children"] = children
		m["nodes"] = []any{root}
		b, err := json.Marshal(m)
		require.NoError(t, err)
		return string(b)
	}

	tests := []struct {
		name     string
		children []int
	}{
		{"out of range", []int{5, 6}},
		{"self loop", []int{0, 0}},
		{"negative", []int{-1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := withRoot(tt.children)
			done := make(chan error, 1)
			go func() {
				_, err := ReadJSON(strings.NewReader(input))
				done <- err
			}()
			select {
			case err := <-done:
				require.ErrorContains(t, err, "tree")
			case <-time.After(3 * time.Second):
				t.Fatal("ReadJSON did not return")
			}
		})
	}
}
