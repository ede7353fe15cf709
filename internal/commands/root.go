// Package commands wires the kestrel CLI.
package commands

import (
	"github.com/spf13/cobra"

	kestrel "github.com/kestrelhq/kestrel"
	"github.com/kestrelhq/kestrel/internal/output"
)

// RootCmd creates and returns the root command for the kestrel CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "kestrel",
		Short: "Project and page scaffolding wizard",
		Long: `Kestrel scaffolds projects, pages, and features from a template catalog.

Pick a project archetype, add pages and features, and kestrel renders the
whole selection in one run: templates in, working tree out. A failed run
rolls the output back, so you never keep a half-generated project.`,
		Version: kestrel.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	cmd.AddCommand(NewCmd())
	cmd.AddCommand(TemplatesCmd())

	return cmd
}
