package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/bspgen/pkg/dungeon"
	bspio "github.com/matzehuels/bspgen/pkg/io"
	"github.com/matzehuels/bspgen/pkg/render"
	"github.com/matzehuels/bspgen/pkg/render/mapsvg"
	"github.com/matzehuels/bspgen/pkg/render/text"
	"github.com/matzehuels/bspgen/pkg/render/treeviz"
)

// Render generates output artifacts for d in the requested formats.
// The map SVG and the tree DOT are built at most once and shared by the
// formats derived from them.
func Render(ctx context.Context, d *dungeon.Dungeon, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	mapSVG := func() []byte {
		if svg == nil {
			svg = mapsvg.Render(d, svgOptions(opts)...)
		}
		return svg
	}
	var dot string
	treeDOT := func() string {
		if dot == "" {
			dot = treeviz.ToDOT(d, treeviz.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			data = []byte(text.Render(d.Grid, text.Options{Border: opts.Border, Color: opts.Color}) + "\n")
		case FormatJSON:
			var buf bytes.Buffer
			err = bspio.WriteJSON(d, &buf)
			data = buf.Bytes()
		case FormatSVG:
			data = mapSVG()
		case FormatPNG:
			data, err = render.ToPNG(mapSVG(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(mapSVG())
		case FormatDOT:
			data = []byte(treeDOT())
		case FormatTreeSVG:
			data, err = treeviz.RenderSVG(ctx, treeDOT())
		case FormatTreePNG:
			data, err = treeviz.RenderPNG(ctx, treeDOT())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func svgOptions(opts Options) []mapsvg.Option {
	var out []mapsvg.Option
	if opts.CellSize > 0 {
		out = append(out, mapsvg.WithCellSize(opts.CellSize))
	}
	if opts.Regions {
		out = append(out, mapsvg.WithRegions())
	}
	if opts.Labels {
		out = append(out, mapsvg.WithLabels())
	}
	return out
}
