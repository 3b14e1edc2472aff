package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bspgen/pkg/pipeline"
)

// Palette. Room, corridor and door match the tile colours of the text map.
var (
	colorAccent   = lipgloss.Color("75")
	colorRoom     = lipgloss.Color("250")
	colorCorridor = lipgloss.Color("36")
	colorDoor     = lipgloss.Color("220")
	colorAlert    = lipgloss.Color("167")
	colorMuted    = lipgloss.Color("242")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink    = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleWarning = lipgloss.NewStyle().Foreground(colorDoor)

	styleRooms     = lipgloss.NewStyle().Foreground(colorRoom)
	styleCorridors = lipgloss.NewStyle().Foreground(colorCorridor)
	styleUnjoined  = lipgloss.NewStyle().Foreground(colorAlert)
	styleSpinner   = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	markDone = "✓"
	markWarn = "!"
	markNote = "›"
	markFile = "→"
)

func printDone(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSpinner.Render(markDone)+" "+fmt.Sprintf(format, args...))
}

func printNote(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleDim.Render(markNote)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleWarning.Render(markWarn+" "+fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(markFile)+" "+path)
}

// summaryLine describes one run: seed, room and corridor counts, joins
// left unconnected and where the artifacts came from. A run served
// entirely from the artifact cache carries no dungeon, so only the seed
// and the cache state are shown.
func summaryLine(res *pipeline.Result) string {
	parts := []string{StyleTitle.Render(fmt.Sprintf("seed %d", res.Seed))}
	if d := res.Dungeon; d != nil {
		parts = append(parts,
			styleRooms.Render(fmt.Sprintf("%d rooms", d.Stats.Rooms)),
			styleCorridors.Render(fmt.Sprintf("%d corridors", d.Stats.Corridors)))
		if d.Stats.Skipped > 0 {
			parts = append(parts, styleUnjoined.Render(fmt.Sprintf("%d unjoined", d.Stats.Skipped)))
		}
	}
	switch {
	case res.CacheInfo.RenderHit:
		parts = append(parts, StyleDim.Render("cached"))
	case res.CacheInfo.DungeonHit:
		parts = append(parts, StyleDim.Render("re-rendered"))
	default:
		parts = append(parts, StyleDim.Render("generated"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, styleSpinner.Render(markDone)+" "+summaryLine(res))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+StyleLink.Render(cmd))
}
