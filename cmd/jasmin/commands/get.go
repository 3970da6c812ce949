package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jasmin/internal/app"
)

func (c *CLI) newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <expression>/<type>[-min][/<variant>]",
		Short: "Build the content for a request path",
		Example: `  jasmin get app/js
  jasmin get app+widgets!jquery/js-min/ie:7 -o dist/app.min.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gzip, _ := cmd.Flags().GetBool("gzip")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Get(cmd.Context(), app.GetOptions{
				ConfigPath: configPath(cmd),
				Path:       args[0],
				Gzip:       gzip,
				Output:     cmd.OutOrStdout(),
				OutputFile: output,
			})
		},
	}
	cmd.Flags().BoolP("gzip", "z", false, "Gzip-compress the content")
	cmd.Flags().StringP("output", "o", "", "Write the content to a file instead of stdout")
	return cmd
}
