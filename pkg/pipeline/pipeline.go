// Package pipeline provides the generate → render pipeline shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: build the dungeon for a configuration and seed
//  2. Render: produce output in the requested formats (txt, json, svg,
//     png, pdf for the map; dot, tree-svg, tree-png for the partition tree)
//
// Rendered artifacts are cached per format. When every requested
// artifact is cached the generator is not run at all; otherwise the
// dungeon snapshot is looked up before regenerating.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  bsp.DefaultConfig(),
//	    Seed:    7,
//	    Formats: []string{"txt", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Artifacts["txt"]))
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/cache"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/errors"
)

// Format constants for output formats.
const (
	FormatText    = "txt"
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatTreeSVG = "tree-svg"
	FormatTreePNG = "tree-png"
)

// DefaultPNGScale is the rsvg-convert zoom used for map PNGs.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:    true,
	FormatJSON:    true,
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatDOT:     true,
	FormatTreeSVG: true,
	FormatTreePNG: true,
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatTreeSVG:
		return "tree.svg"
	case FormatTreePNG:
		return "tree.png"
	}
	return format
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Config  bsp.Config `json:"config"`
	Seed    uint64     `json:"seed"`
	Formats []string   `json:"formats,omitempty"`
	Refresh bool       `json:"refresh,omitempty"`

	// Text options
	Border bool `json:"border,omitempty"`
	Color  bool `json:"-"`

	// SVG options
	CellSize float64 `json:"cell_size,omitempty"`
	Regions  bool    `json:"regions,omitempty"`
	Labels   bool    `json:"labels,omitempty"`

	// Tree options
	Detailed bool `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Debug  bool        `json:"-"`
	Logger *log.Logger `json:"-"`
	// Progress is called by ExecuteBatch after each seed completes. Calls
	// come from worker goroutines.
	Progress func(res *Result) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks formats, normalizes the generator config
// and applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == (bsp.Config{}) {
		o.Config = bsp.DefaultConfig()
	}
	o.Config.Normalize()
	if err := dungeon.CheckLimits(o.Config); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	if o.CellSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ConfigHash hashes the normalized generator config.
func (o *Options) ConfigHash() string {
	data, _ := json.Marshal(o.Config)
	return cache.Hash(data)
}

// ArtifactKeyOpts returns cache key options for one format. Only the
// options that change that format's bytes are part of the key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	var style []string
	switch format {
	case FormatText:
		if o.Border {
			style = append(style, "border")
		}
	case FormatSVG, FormatPNG, FormatPDF:
		if o.CellSize > 0 {
			style = append(style, fmt.Sprintf("cell=%g", o.CellSize))
		}
		if o.Regions {
			style = append(style, "regions")
		}
		if o.Labels {
			style = append(style, "labels")
		}
	case FormatDOT, FormatTreeSVG, FormatTreePNG:
		if o.Detailed {
			style = append(style, "detailed")
		}
	}
	return cache.ArtifactKeyOpts{Format: format, Style: strings.Join(style, ",")}
}

// cacheable reports whether a format's artifact may be cached. Coloured
// text carries terminal escapes and is always rendered fresh.
func (o *Options) cacheable(format string) bool {
	return !(format == FormatText && o.Color)
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seed is the seed the dungeon was generated with.
	Seed uint64

	// Key is the dungeon cache key.
	Key string

	// Dungeon is the generated dungeon. It is nil when every artifact
	// came from the cache.
	Dungeon *dungeon.Dungeon

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DungeonHit bool // Whether the dungeon snapshot came from cache
	RenderHit  bool // Whether all artifacts came from cache
}
