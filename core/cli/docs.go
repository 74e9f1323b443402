package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// DefaultMkDocsConfig is the mkdocs configuration read by "docs".
const DefaultMkDocsConfig = "mkdocs.yml"

// DocsOptions holds the resolved options of "docs".
type DocsOptions struct {
	Config           string
	Output           string
	DryRun           bool
	Modules          []string
	AnnotationModule string
}

// DocsRunFunc is the handler of "docs", injected by the wiring layer.
type DocsRunFunc func(ctx context.Context, opts DocsOptions) error

// NewDocsCmd creates the "docs" command.
func NewDocsCmd(global *GlobalOptions, runFunc DocsRunFunc) *cobra.Command {
	var opts DocsOptions

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the API reference pages and navigation",
		Long: "Load the modules configured for the apigen plugin in mkdocs.yml, write one mkdocstrings page per module with public objects, " +
			"and merge the API reference section into the nav.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(global)
			if err != nil {
				return err
			}
			fromProject(cmd, "annotation-module", &opts.AnnotationModule, proj.Apigen.AnnotationModule)
			if _, err := os.Stat(opts.Config); err != nil {
				return fmt.Errorf("cannot read --config: %w", err)
			}
			if opts.Output == "" {
				opts.Output = opts.Config
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", DefaultMkDocsConfig, "mkdocs configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "where to write the updated configuration (default: --config)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the pages and nav that would be written")
	cmd.Flags().StringSliceVar(&opts.Modules, "module", nil, "root module to document (overrides the plugin's modules)")
	cmd.Flags().StringVar(&opts.AnnotationModule, "annotation-module", "", "module providing the annotation decorators (default \"apigen\")")

	return cmd
}
