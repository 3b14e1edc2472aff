// Package render turns generated dungeons into artifacts.
//
// The subpackages cover one output each:
//
//   - [text]: the map as characters, for terminals and snapshot tests
//   - [mapsvg]: the map as SVG
//   - [treeviz]: the partition tree as Graphviz DOT, SVG or PNG
//
// This package converts SVG to PNG and PDF with the external rsvg-convert
// tool from librsvg:
//
//	svg := mapsvg.Render(d)
//	png, err := render.ToPNG(svg, 2.0)
//
// [text]: github.com/matzehuels/bspgen/pkg/render/text
// [mapsvg]: github.com/matzehuels/bspgen/pkg/render/mapsvg
// [treeviz]: github.com/matzehuels/bspgen/pkg/render/treeviz
package render
