package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/jasmin/internal/app"
	"go.trai.ch/jasmin/internal/core/domain"
	"go.trai.ch/jasmin/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List all modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modules, err := c.app.Modules(cmd.Context(), configPath(cmd))
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), modules)
			}
			writeModules(cmd.OutOrStdout(), modules)
			return nil
		},
	}
}

func (c *CLI) newModuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "module <name>",
		Short: "Describe one module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := c.app.Module(cmd.Context(), configPath(cmd), args[0])
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), detail)
			}
			writeModule(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every module file is readable and minimized files are smaller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ignore, _ := cmd.Flags().GetStringSlice("ignore")
			strict, _ := cmd.Flags().GetBool("strict")
			parallelism, _ := cmd.Flags().GetInt("parallelism")

			report, err := c.app.Check(cmd.Context(), app.CheckOptions{
				ConfigPath:  configPath(cmd),
				Ignore:      ignore,
				Parallelism: parallelism,
			})
			if err != nil {
				return err
			}

			if c.json {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				writeReport(cmd.OutOrStdout(), report)
			}

			if !report.Clean() || (strict && len(report.Unreferenced) > 0) {
				err := zerr.With(zerr.Wrap(domain.ErrCheckFailed, "check"), "problems", len(report.Problems))
				return zerr.With(err, "unreferenced", len(report.Unreferenced))
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("ignore", nil, "Globs relative to the docroot excluded from the unreferenced file scan")
	cmd.Flags().Bool("strict", false, "Fail when asset files are not referenced by any module")
	cmd.Flags().Int("parallelism", 0, "Number of files read at once (default 8)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "encode json")
	}
	return nil
}

func writeModules(w io.Writer, modules []domain.ModuleSummary) {
	r := lipgloss.NewRenderer(w)
	width := 0
	for _, m := range modules {
		width = max(width, lipgloss.Width(m.Name))
	}
	name := r.NewStyle().Bold(true).Width(width + 2)
	deps := r.NewStyle().Foreground(style.Slate)

	for _, m := range modules {
		line := name.Render(m.Name)
		if len(m.Dependencies) > 0 {
			line += deps.Render(style.Arrow + " " + strings.Join(m.Dependencies, ", "))
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func writeModule(w io.Writer, m domain.ModuleDetail) {
	r := lipgloss.NewRenderer(w)
	dim := r.NewStyle().Foreground(style.Slate)

	header := r.NewStyle().Bold(true).Render(m.Name)
	if source := m.Source.String(); source != "" {
		header += " " + dim.Render("("+source+")")
	}
	_, _ = fmt.Fprintln(w, header)

	for _, f := range m.Files {
		line := "  " + string(f.Type)
		if f.Variant != "" {
			line += " [" + f.Variant + "]"
		}
		line += " " + f.Normal
		if f.Minimized != "" {
			line += " " + dim.Render("(min: "+f.Minimized+")")
		}
		_, _ = fmt.Fprintln(w, line)
	}
	if len(m.Dependencies) > 0 {
		_, _ = fmt.Fprintln(w, "  "+style.Arrow+" "+strings.Join(m.Dependencies, ", "))
	}
}

func writeReport(w io.Writer, report app.CheckReport) {
	r := lipgloss.NewRenderer(w)
	bad := r.NewStyle().Foreground(style.Red)
	warn := r.NewStyle().Foreground(style.Amber)
	good := r.NewStyle().Foreground(style.Green)

	for _, p := range report.Problems {
		_, _ = fmt.Fprintln(w, bad.Render(style.Cross)+" "+p.String())
	}
	for _, path := range report.Unreferenced {
		_, _ = fmt.Fprintln(w, warn.Render(style.Warning)+" unreferenced: "+path)
	}
	if report.Clean() {
		_, _ = fmt.Fprintln(w, good.Render(style.Check)+" all module files are readable")
	}
}
