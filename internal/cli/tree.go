package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

var treeFormats = map[string]string{
	"dot": pipeline.FormatDOT,
	"svg": pipeline.FormatTreeSVG,
	"png": pipeline.FormatTreePNG,
}

var treeFormatNames = []string{"dot", "png", "svg"}

// treeCommand draws the partition tree of a generated dungeon.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		gen      generatorFlags
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Draw the partition tree of a dungeon",
		Long: `Draw the partition tree as Graphviz DOT, SVG or PNG. Joins that
could not be connected are dashed; joins whose rooms touch are shaded.`,
		Example: `  bspgen tree -s 42 | dot -Tsvg > tree.svg
  bspgen tree -s 42 -f png -o tree.png --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pf, ok := treeFormats[format]
			if !ok {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid tree format %q (must be dot, svg or png)", format)
			}

			cfg := c.cfg().Generator
			for _, w := range gen.apply(cmd, &cfg) {
				loggerFromContext(ctx).Warn(w)
			}
			seed, err := gen.resolveSeed(c.cfg().Seed)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, pipeline.Options{
				Config:   cfg,
				Seed:     seed,
				Formats:  []string{pf},
				Detailed: detailed,
			})
			if err != nil {
				return err
			}

			data := res.Artifacts[pf]
			if output == "" && pf == pipeline.FormatDOT {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = basePath("", seed) + "." + pipeline.Extension(pf)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "tree format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show region sizes and room ranges")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(treeFormatNames))

	return cmd
}
