package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathrank/internal/api"
	"github.com/matzehuels/pathrank/pkg/cache"
	"github.com/matzehuels/pathrank/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking API over HTTP",
		Long: `Serve the ranking API over HTTP.

  GET  /healthz
  POST /v1/rank
  POST /v1/graph?format=json|dot|svg|png|pdf

Cache entries written by the server are kept apart from CLI entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config().Server
			if addr == "" {
				addr = cfg.Addr
			}

			cc, err := c.newCache(ctx, flags)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), c.Logger)
			defer runner.Close()

			srv := api.NewServer(runner, c.Logger, api.Options{
				Addr:         addr,
				ReadTimeout:  cfg.ReadTimeout.Duration,
				WriteTimeout: cfg.WriteTimeout.Duration,
				MaxBodyBytes: cfg.MaxBodyBytes,
			})
			printInfo(cmd.OutOrStdout(), "Serving on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.redis, "redis", "", "Redis address or URL for the shared cache")

	return cmd
}
