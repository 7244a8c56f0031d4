package commands

import (
	"github.com/spf13/cobra"

	"github.com/hledger-lit/hledger-lit/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the charts in the browser",
		Long: `serve starts an HTTP server with a page drawing the four charts.
Each request re-runs hledger, so edits to the journal show up on reload.
The --begin/--end flags are ignored; the page sends its own range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.reports()
			if err != nil {
				return err
			}
			return server.NewService(svc, a.log).Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8050", "listen address")
	return cmd
}
