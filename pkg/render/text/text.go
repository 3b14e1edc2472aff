// Package text renders an occupancy grid as a block of characters, one
// per cell, with the highest row printed first so that north is up.
package text

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bspgen/pkg/grid"
)

// Glyphs used for each tile kind.
const (
	GlyphEmpty    = ' '
	GlyphRoom     = '.'
	GlyphCorridor = '#'
	GlyphDoor     = '+'
)

// Options configures text rendering.
type Options struct {
	// Border frames the map with box-drawing characters.
	Border bool
	// Color styles tiles with lipgloss. Output falls back to plain text
	// when the terminal has no colour support.
	Color bool
}

var (
	styleRoom     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleCorridor = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	styleDoor     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// Glyph returns the character for a tile. Mixed tiles show the most
// specific flag: door, then corridor, then room.
func Glyph(t grid.Tile) rune {
	switch {
	case t&grid.Door != 0:
		return GlyphDoor
	case t&grid.Corridor != 0:
		return GlyphCorridor
	case t&grid.Room != 0:
		return GlyphRoom
	default:
		return GlyphEmpty
	}
}

// Render draws g. Rows are separated by newlines; there is no trailing
// newline.
func Render(g *grid.Grid, opts Options) string {
	size := g.Size()
	lines := make([]string, 0, size.Y)
	var sb strings.Builder
	for y := size.Y - 1; y >= 0; y-- {
		sb.Reset()
		for _, t := range g.Row(y) {
			writeTile(&sb, t, opts.Color)
		}
		lines = append(lines, sb.String())
	}
	out := strings.Join(lines, "\n")
	if opts.Border {
		if !opts.Color {
			return frame(lines, size.X)
		}
		return styleBorder.Render(out)
	}
	return out
}

func writeTile(sb *strings.Builder, t grid.Tile, color bool) {
	g := Glyph(t)
	if !color || g == GlyphEmpty {
		sb.WriteRune(g)
		return
	}
	s := string(g)
	switch g {
	case GlyphDoor:
		sb.WriteString(styleDoor.Render(s))
	case GlyphCorridor:
		sb.WriteString(styleCorridor.Render(s))
	default:
		sb.WriteString(styleRoom.Render(s))
	}
}

// frame draws a plain ASCII border so uncoloured output stays byte-exact.
func frame(lines []string, width int) string {
	edge := "+" + strings.Repeat("-", width) + "+"
	var sb strings.Builder
	sb.WriteString(edge)
	for _, l := range lines {
		sb.WriteString("\n|")
		sb.WriteString(l)
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	sb.WriteString(edge)
	return sb.String()
}

// Parse reads text produced by Render without a border back into a grid.
// Unknown characters are treated as empty cells.
func Parse(s string) *grid.Grid {
	lines := strings.Split(s, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	g := grid.New(grid.Pt(width, len(lines)))
	for i, l := range lines {
		y := len(lines) - 1 - i
		for x, r := range []rune(l) {
			switch r {
			case GlyphRoom:
				g.Set(x, y, grid.Room)
			case GlyphCorridor:
				g.Set(x, y, grid.Corridor)
			case GlyphDoor:
				g.Set(x, y, grid.Door)
			}
		}
	}
	return g
}
