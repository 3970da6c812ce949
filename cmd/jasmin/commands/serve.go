package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jasmin/internal/app"
	"go.trai.ch/jasmin/internal/core/domain"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve modules over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			opts := app.ServeOptions{
				Addr:       addr,
				ConfigPath: configPath(cmd),
			}
			// Only an explicit --live overrides the config file.
			if cmd.Flags().Changed("live") {
				live, _ := cmd.Flags().GetBool("live")
				opts.Live = &live
			}
			return c.app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("addr", "a", domain.DefaultAddr, "Address to listen on")
	cmd.Flags().Bool("live", false, "Reload modules when their files change (overrides the config file)")
	return cmd
}
