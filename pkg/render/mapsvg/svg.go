// Package mapsvg renders a generated dungeon as a standalone SVG document.
//
// Cell (0,0) is the bottom-left corner of the map; the SVG is flipped so
// that higher rows appear further up, matching the text renderer.
package mapsvg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/grid"
)

const (
	DefaultCellSize = 12.0

	colorBackground = "#1d1f21"
	colorRoom       = "#c5c8c6"
	colorCorridor   = "#5e8d87"
	colorDoor       = "#f0c674"
	colorRegion     = "#81a2be"
	colorLabel      = "#1d1f21"
)

type Option func(*renderer)

type renderer struct {
	cell    float64
	regions bool
	labels  bool
}

// WithCellSize sets the edge length of one cell in SVG units.
func WithCellSize(px float64) Option {
	return func(r *renderer) {
		if px > 0 {
			r.cell = px
		}
	}
}

// WithRegions outlines every leaf region of the partition.
func WithRegions() Option { return func(r *renderer) { r.regions = true } }

// WithLabels writes the room id at the center of each room.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// Render draws d and returns the SVG document.
func Render(d *dungeon.Dungeon, opts ...Option) []byte {
	r := renderer{cell: DefaultCellSize}
	for _, opt := range opts {
		opt(&r)
	}

	size := d.Grid.Size()
	w, h := float64(size.X)*r.cell, float64(size.Y)*r.cell

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, colorBackground)

	buf.WriteString(`  <g class="rooms">` + "\n")
	for _, room := range d.Rooms {
		r.rect(&buf, size, room.Rect(), fmt.Sprintf(`id="room-%d" fill="%s"`, room.ID, colorRoom))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="corridors">` + "\n")
	for _, c := range d.Corridors {
		r.rect(&buf, size, c.Rect(), fmt.Sprintf(`data-node="%d" fill="%s"`, c.Node, colorCorridor))
	}
	buf.WriteString("  </g>\n")

	r.doors(&buf, d.Grid)

	if r.regions && d.Tree != nil {
		buf.WriteString(`  <g class="regions" fill="none" stroke="` + colorRegion + `" stroke-dasharray="4 3">` + "\n")
		for _, id := range d.Tree.Leaves {
			r.rect(&buf, size, d.Tree.Node(id).Bounds(), fmt.Sprintf(`data-node="%d"`, id))
		}
		buf.WriteString("  </g>\n")
	}

	if r.labels {
		r.writeLabels(&buf, size, d.Rooms)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// rect writes one inclusive cell rectangle.
func (r *renderer) rect(buf *bytes.Buffer, size grid.Point, rc grid.Rect, attrs string) {
	x := float64(rc.Start.X) * r.cell
	y := float64(size.Y-1-rc.End.Y) * r.cell
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n",
		x, y, float64(rc.Width())*r.cell, float64(rc.Height())*r.cell, attrs)
}

func (r *renderer) doors(buf *bytes.Buffer, g *grid.Grid) {
	size := g.Size()
	var open bool
	for y := range size.Y {
		for x, t := range g.Row(y) {
			if t&grid.Door == 0 {
				continue
			}
			if !open {
				buf.WriteString(`  <g class="doors">` + "\n")
				open = true
			}
			cell := grid.Rect{Start: grid.Pt(x, y), End: grid.Pt(x, y)}
			r.rect(buf, size, cell, `fill="`+colorDoor+`"`)
		}
	}
	if open {
		buf.WriteString("  </g>\n")
	}
}

func (r *renderer) writeLabels(buf *bytes.Buffer, size grid.Point, rooms []bsp.Room) {
	fontSize := r.cell * 0.9
	fmt.Fprintf(buf, `  <g class="labels" font-family="monospace" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">`+"\n",
		fontSize, colorLabel)
	for _, room := range rooms {
		rc := room.Rect()
		cx := (float64(rc.Start.X) + float64(rc.Width())/2) * r.cell
		cy := (float64(size.Y-1-rc.End.Y) + float64(rc.Height())/2) * r.cell
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f">%d</text>`+"\n", cx, cy, room.ID)
	}
	buf.WriteString("  </g>\n")
}
