package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/cache"
	"github.com/matzehuels/bspgen/pkg/config"
	"github.com/matzehuels/bspgen/pkg/pipeline"
	"github.com/matzehuels/bspgen/pkg/server"
)

// serverKeyPrefix separates server entries from CLI entries in a shared
// Redis or MongoDB cache.
const serverKeyPrefix = "srv:"

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over HTTP",
		Long: `Serve the generator over HTTP until interrupted.

  GET  /healthz
  POST /v1/dungeons                  {"seed": 7, "config": {"depth": 4}, "formats": ["txt"]}
  GET  /v1/dungeons/{seed}.{format}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			timeout, err := cfg.Server.RequestTimeout()
			if err != nil {
				return err
			}

			cc, err := cfg.Cache.Open(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
			defer runner.Close()

			srv := server.New(runner, cfg.Generator, c.Logger, server.WithTimeout(timeout))
			printNote(cmd.ErrOrStderr(), "Listening on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
