// Package commands implements the CLI commands for the jasmin asset server.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/jasmin/internal/app"
	"go.trai.ch/jasmin/internal/build"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/core/ports"
)

// CLI represents the command line interface for jasmin.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
	json    bool
}

// Application represents the application logic interface.
type Application interface {
	Serve(ctx context.Context, opts app.ServeOptions) error
	Get(ctx context.Context, opts app.GetOptions) error
	Modules(ctx context.Context, configPath string) ([]domain.ModuleSummary, error)
	Module(ctx context.Context, configPath, name string) (domain.ModuleDetail, error)
	Check(ctx context.Context, opts app.CheckOptions) (app.CheckReport, error)
}

// New creates a new CLI instance with the given app.
// The logger, if it supports it, is switched by the --json and --quiet flags.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "jasmin",
		Short:         "Serve JavaScript and CSS modules with their dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to "+domain.ConfigFileName+" (default: nearest above the working directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs and listings as JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = c.configureLogger

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newModulesCmd())
	rootCmd.AddCommand(c.newModuleCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogger(cmd *cobra.Command, _ []string) {
	c.json, _ = cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if l, ok := c.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(c.json)
	}
	if l, ok := c.logger.(interface{ SetQuiet(quiet bool) }); ok {
		l.SetQuiet(quiet)
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
