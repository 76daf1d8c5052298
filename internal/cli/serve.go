package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/ogppu/server"
)

const defaultAddr = ":8080"

func (c *CLI) serveCommand() *cobra.Command {
	var (
		card cardOpts
		addr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve card generation over HTTP",
		Long: `Serve card generation over HTTP.

  POST /api/ogp          {"title": "..."} returns the image as base64 and a data URI
  GET  /api/ogp/image    ?title=... downloads the image
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			gen, err := card.newGenerator(logger)
			if err != nil {
				return err
			}
			return server.New(gen, logger).Run(cmd.Context(), addr)
		},
	}
	card.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", envOr("OGPPU_ADDR", defaultAddr), "listen address (env OGPPU_ADDR)")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
