package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	bspio "github.com/matzehuels/bspgen/pkg/io"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats  string
	output   string
	border   bool
	regions  bool
	labels   bool
	detailed bool
}

// renderCommand re-renders a saved JSON snapshot without regenerating.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <snapshot.json>",
		Short: "Render a saved dungeon snapshot",
		Long: `Render a dungeon saved with "generate -f json" in other formats.
The snapshot is validated on load; the generator is not run.`,
		Example:           `  bspgen render dungeon-42.json -f svg,png --labels`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSnapshots,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output format(s), comma-separated")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().BoolVar(&opts.border, "border", false, "frame the text map")
	cmd.Flags().BoolVar(&opts.regions, "regions", false, "outline partition regions in SVG output")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label rooms in SVG output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show sizes and room ranges in tree output")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatNames()))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	prog := newProgress(logger)
	d, err := bspio.ImportJSON(input)
	if err != nil {
		return err
	}
	prog.done("snapshot loaded", "path", input, "seed", d.Seed, "rooms", len(d.Rooms))

	artifacts, err := pipeline.Render(ctx, d, pipeline.Options{
		Formats:  formats,
		Border:   opts.border,
		Regions:  opts.regions,
		Labels:   opts.labels,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input))
	}
	base := basePath(output, d.Seed)
	for _, f := range formats {
		path := base + "." + pipeline.Extension(f)
		if f == pipeline.FormatJSON && path == input {
			continue
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return err
		}
		printFile(cmd.OutOrStdout(), path)
	}
	return nil
}
