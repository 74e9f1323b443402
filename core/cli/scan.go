package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// ScanOptions holds the resolved options of "scan".
type ScanOptions struct {
	Source           string
	AnnotationModule string
}

// ScanRunFunc is the handler of "scan", injected by the wiring layer.
type ScanRunFunc func(ctx context.Context, opts ScanOptions) error

// NewScanCmd creates the "scan" command.
func NewScanCmd(global *GlobalOptions, runFunc ScanRunFunc) *cobra.Command {
	var opts ScanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the extracted publication metadata as JSON",
		Long:  "Extract the annotated symbols, source modules and source packages of the tree and print them as JSON. Stale alias packages are left on disk.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(global)
			if err != nil {
				return err
			}
			fromProject(cmd, "source", &opts.Source, proj.Apigen.SourceRoot)
			fromProject(cmd, "annotation-module", &opts.AnnotationModule, proj.Apigen.AnnotationModule)
			return requireDir("source", opts.Source)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", ".", "root of the Python source tree")
	cmd.Flags().StringVar(&opts.AnnotationModule, "annotation-module", "", "module providing the annotation decorators (default \"apigen\")")

	return cmd
}
