package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/server"
)

// serveKeyPrefix namespaces API results in shared cache backends.
const serveKeyPrefix = "almanac:api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the solver over HTTP:

  POST /v1/solve?mode=exact|ranged&refresh=1   almanac text in, JSON result out
  POST /v1/graph?format=dot|svg|png            almanac text in, category graph out
  GET  /v1/version
  GET  /healthz

Solver settings (workers, batch_size, timeout) and the cache backend come
from the config file. Use a redis or mongo backend to share results between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache, cache.NewScopedKeyer(nil, serveKeyPrefix))
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			logger.Info("starting server",
				"cache", cfg.Cache.Backend,
				"workers", cfg.Workers,
				"timeout", cfg.Timeout.Duration)

			srv := server.New(runner, logger, server.Options{
				Workers:      cfg.Workers,
				BatchSize:    cfg.BatchSize,
				Timeout:      cfg.Timeout.Duration,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
