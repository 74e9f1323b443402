// Package cli defines the apigen commands. Commands parse and validate flags,
// layer them over the [tool.apigen] table of pyproject.toml, and hand the
// resolved options to run functions injected by the wiring layer
// (cmd/apigen/main.go).
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed to run functions through context.Context (log.FromContext).
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	Verbose bool
	Project string // directory holding pyproject.toml
}

// NewRootCmd creates the top-level apigen command.
func NewRootCmd(version string, global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "apigen",
		Short:        "Public API surface manager for Python libraries",
		Long:         "apigen reads the public, also_available_as and deprecated annotations of a Python library without importing it, generates the alias packages that make annotated symbols importable under their public paths, and builds the mkdocs API reference.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if global.Verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(log.WithContext(cmd.Context(), NewLogger(os.Stderr, level)))
		},
	}

	cmd.Version = version

	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&global.Project, "project", ".", "directory containing pyproject.toml")

	return cmd
}
