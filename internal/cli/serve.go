package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tower building and scoring over HTTP",
		Long: `Serve starts an HTTP API:

  POST /v1/build      build and score a tower from a word list
  POST /v1/evaluate   score a tower
  GET  /healthz       liveness
  GET  /version       build information

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if addr == "" {
				addr = server.DefaultAddr
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Options{
				Runner:   runner,
				Defaults: c.pipelineOptions(),
				Logger:   c.Logger,
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
