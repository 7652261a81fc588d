package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/internal/config"
	"github.com/mesh-intelligence/reels/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		Long:  "Serve the catalog over HTTP until interrupted. Prometheus metrics are exposed at /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return httpapi.New(c, a.backend).ListenAndServe(ctx, a.settings.HTTPAddr)
		},
	}
	cmd.Flags().String("addr", config.DefaultHTTPAddr, "listen address")
	return cmd
}
