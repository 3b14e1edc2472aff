package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	gen      generatorFlags
	formats  string
	output   string // output file (single format) or base path
	count    int    // number of consecutive seeds to generate
	workers  int
	noCache  bool
	refresh  bool
	border   bool
	color    bool
	regions  bool
	labels   bool
	detailed bool
	debug    bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{count: 1, workers: defaultWorkers}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dungeon map",
		Long: `Generate a dungeon map and write it in one or more formats.

With a single text format and no --output the map is printed to stdout.
Otherwise files are written as <output>.<format>; with --count each seed
gets its own <output>-<seed>.<format>.`,
		Example: `  bspgen generate --seed 42
  bspgen generate -s 7 --width 120 --height 60 -f svg,json -o maps/seven
  bspgen generate --count 10 -f png -o batch/map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	opts.gen.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default txt)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "generate this many consecutive seeds")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "concurrent generations with --count")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and regenerate")
	cmd.Flags().BoolVar(&opts.border, "border", false, "frame the text map")
	cmd.Flags().BoolVar(&opts.color, "color", false, "colour the text map (stdout only)")
	cmd.Flags().BoolVar(&opts.regions, "regions", false, "outline partition regions in SVG output")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label rooms in SVG output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show sizes and room ranges in tree output")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log generator diagnostics")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatNames()))

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := errors.ValidateCount(opts.count, 10000); err != nil {
		return err
	}
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	cfg := c.cfg().Generator
	for _, w := range opts.gen.apply(cmd, &cfg) {
		logger.Warn(w)
	}
	seed, err := opts.gen.resolveSeed(c.cfg().Seed)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Config:   cfg,
		Seed:     seed,
		Formats:  formats,
		Refresh:  opts.refresh,
		Border:   opts.border,
		Color:    opts.color && opts.output == "",
		Regions:  opts.regions,
		Labels:   opts.labels,
		Detailed: opts.detailed,
		Debug:    opts.debug,
	}

	stdout := cmd.OutOrStdout()
	if opts.count == 1 {
		res, err := runner.Execute(ctx, popts)
		if err != nil {
			return err
		}
		return writeResult(stdout, res, formats, opts.output, false)
	}

	seeds := make([]uint64, opts.count)
	for i := range seeds {
		seeds[i] = seed + uint64(i)
	}

	prog := newProgress(logger)
	bar := newBatchProgress(ctx, cmd.ErrOrStderr(), "generating", len(seeds))
	popts.Progress = func(res *pipeline.Result) { bar.advance(res.Seed) }
	bar.start()
	results, err := runner.ExecuteBatch(ctx, popts, seeds, opts.workers)
	bar.stop()
	if err != nil {
		return err
	}
	prog.done("batch generated", batchFields(results)...)

	for _, res := range results {
		if err := writeResult(stdout, res, formats, opts.output, true); err != nil {
			return err
		}
	}
	return nil
}

// textFormats may be printed to stdout.
var textFormats = map[string]bool{
	pipeline.FormatText: true,
	pipeline.FormatJSON: true,
	pipeline.FormatSVG:  true,
	pipeline.FormatDOT:  true,
}

// writeResult writes the artifacts of one run. A single text format
// without an output path goes to stdout.
func writeResult(stdout io.Writer, res *pipeline.Result, formats []string, output string, batch bool) error {
	if output == "" && !batch && len(formats) == 1 && textFormats[formats[0]] {
		_, err := stdout.Write(res.Artifacts[formats[0]])
		return err
	}

	base := basePath(output, res.Seed)
	if batch {
		base = fmt.Sprintf("%s-%d", base, res.Seed)
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	printSummary(stdout, res)
	for _, f := range formats {
		path := base + "." + pipeline.Extension(f)
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(stdout, path)
	}
	if !batch && slices.Contains(formats, pipeline.FormatJSON) {
		printNextStep(stdout, "Render it again", appName+" render "+base+".json -f svg")
	}
	return nil
}

// basePath derives the base output path. An empty output means
// dungeon-<seed> in the working directory; a known format extension on
// output is stripped.
func basePath(output string, seed uint64) string {
	if output == "" {
		return fmt.Sprintf("dungeon-%d", seed)
	}
	for _, ext := range []string{".tree.svg", ".tree.png"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	if ext := filepath.Ext(output); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
