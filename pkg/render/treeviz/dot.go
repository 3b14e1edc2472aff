// Package treeviz draws the partition tree of a dungeon as a Graphviz
// diagram: internal nodes show their split, leaves show their room, and
// joins that could not be connected are dashed.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds region size, depth and room range to each label.
	// When false, only the node id and split direction are shown.
	Detailed bool
}

// ToDOT converts the partition tree of d to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(d *dungeon.Dungeon, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph bsp {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace, fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	t := d.Tree
	for i := range t.Nodes {
		n := &t.Nodes[i]
		attrs := []string{fmt.Sprintf("label=%q", label(d, n, opts.Detailed))}
		switch {
		case n.IsLeaf():
			attrs = append(attrs, "shape=box3d", "fillcolor=\"#c5c8c6\"")
		case slices.Contains(d.Skipped, n.ID):
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=\"#cc6666\"")
		case slices.Contains(d.Adjacent, n.ID):
			attrs = append(attrs, "fillcolor=\"#f0c674\"")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(d *dungeon.Dungeon, n *bsp.Node, detailed bool) string {
	head := fmt.Sprintf("#%d", n.ID)
	if !n.IsLeaf() {
		if n.SplitVertical {
			head += " |"
		} else {
			head += " -"
		}
	}
	if !detailed {
		return head
	}

	parts := []string{head, fmt.Sprintf("%dx%d d%d", n.Size.X, n.Size.Y, n.Depth)}
	if n.IsLeaf() && n.Room != bsp.NoRoom && int(n.Room) < len(d.Rooms) {
		sz := d.Rooms[n.Room].Size()
		parts = append(parts, fmt.Sprintf("room %d: %dx%d", n.Room, sz.X, sz.Y))
	} else if !n.RoomRange.Empty() {
		parts = append(parts, fmt.Sprintf("range %v", n.RoomRange))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg tag with a plain
// viewBox so the diagram scales like the map SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
