package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/apigen/pkg/deprecation"
)

// LintOptions holds the resolved options of "lint".
type LintOptions struct {
	Source           string
	Release          string
	AnnotationModule string
}

// LintRunFunc is the handler of "lint", injected by the wiring layer.
type LintRunFunc func(ctx context.Context, opts LintOptions) error

// NewLintCmd creates the "lint" command.
func NewLintCmd(global *GlobalOptions, runFunc LintRunFunc) *cobra.Command {
	var opts LintOptions

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check annotations without writing anything",
		Long: "Validate every annotation and alias of the source tree, and fail when a deprecated symbol is still present in the release " +
			"it was announced to be removed in. The release defaults to the version in pyproject.toml.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(global)
			if err != nil {
				return err
			}
			fromProject(cmd, "source", &opts.Source, proj.Apigen.SourceRoot)
			fromProject(cmd, "release", &opts.Release, proj.Version)
			fromProject(cmd, "annotation-module", &opts.AnnotationModule, proj.Apigen.AnnotationModule)
			if opts.Release != "" {
				if err := deprecation.ValidateRelease(opts.Release); err != nil {
					return fmt.Errorf("--release: %w", err)
				}
			}
			return requireDir("source", opts.Source)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", ".", "root of the Python source tree")
	cmd.Flags().StringVar(&opts.Release, "release", "", "release being prepared, e.g. 4.2 or 4.2.1")
	cmd.Flags().StringVar(&opts.AnnotationModule, "annotation-module", "", "module providing the annotation decorators (default \"apigen\")")

	return cmd
}
