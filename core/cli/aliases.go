package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// BuildAliasesOptions holds the resolved options of "build-aliases".
type BuildAliasesOptions struct {
	Source           string
	Dest             string
	BuildTemp        string
	Editable         bool
	JSON             bool
	AnnotationModule string
}

// BuildAliasesRunFunc is the handler of "build-aliases", injected by the wiring layer.
type BuildAliasesRunFunc func(ctx context.Context, opts BuildAliasesOptions) error

// NewBuildAliasesCmd creates the "build-aliases" command.
func NewBuildAliasesCmd(global *GlobalOptions, runFunc BuildAliasesRunFunc) *cobra.Command {
	var opts BuildAliasesOptions

	cmd := &cobra.Command{
		Use:   "build-aliases",
		Short: "Generate alias packages for annotated symbols",
		Long: "Scan the source tree for annotated symbols and generate the __init__.py alias packages that make them importable under their public paths. " +
			"With --editable the packages are generated in place, otherwise under <build-temp>/aliases.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(global)
			if err != nil {
				return err
			}
			fromProject(cmd, "source", &opts.Source, proj.Apigen.SourceRoot)
			fromProject(cmd, "build-temp", &opts.BuildTemp, proj.Apigen.BuildDir)
			fromProject(cmd, "annotation-module", &opts.AnnotationModule, proj.Apigen.AnnotationModule)
			return resolveBuildAliasesOptions(&opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", ".", "root of the Python source tree")
	cmd.Flags().StringVar(&opts.Dest, "dest", "", "directory to generate alias packages in (overrides --editable and --build-temp)")
	cmd.Flags().StringVar(&opts.BuildTemp, "build-temp", DefaultBuildTemp, "build directory; aliases go to <build-temp>/aliases")
	cmd.Flags().BoolVar(&opts.Editable, "editable", false, "generate alias packages in the source tree")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print outputs and the output mapping as JSON")
	cmd.Flags().StringVar(&opts.AnnotationModule, "annotation-module", "", "module providing the annotation decorators (default \"apigen\")")

	return cmd
}

func resolveBuildAliasesOptions(opts *BuildAliasesOptions) error {
	if err := requireDir("source", opts.Source); err != nil {
		return err
	}
	switch {
	case opts.Dest != "":
	case opts.Editable:
		opts.Dest = opts.Source
	default:
		if opts.BuildTemp == "" {
			return fmt.Errorf("--build-temp cannot be empty")
		}
		opts.Dest = filepath.Join(opts.BuildTemp, "aliases")
	}
	return nil
}

// InstallAliasesOptions holds the resolved options of "install-aliases".
type InstallAliasesOptions struct {
	AliasesDir string
	InstallLib string
}

// InstallAliasesRunFunc is the handler of "install-aliases", injected by the wiring layer.
type InstallAliasesRunFunc func(ctx context.Context, opts InstallAliasesOptions) error

// NewInstallAliasesCmd creates the "install-aliases" command.
func NewInstallAliasesCmd(global *GlobalOptions, runFunc InstallAliasesRunFunc) *cobra.Command {
	var opts InstallAliasesOptions

	cmd := &cobra.Command{
		Use:   "install-aliases",
		Short: "Copy generated alias packages into an install tree",
		Long:  "Copy every generated alias package from the aliases directory into the install tree. Hand written files in the install tree are never overwritten.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("aliases-dir") {
				proj, err := loadProject(global)
				if err != nil {
					return err
				}
				if proj.Apigen.BuildDir != "" {
					opts.AliasesDir = filepath.Join(proj.Apigen.BuildDir, "aliases")
				}
			}
			if opts.InstallLib == "" {
				return fmt.Errorf("--install-lib is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.AliasesDir, "aliases-dir", filepath.Join(DefaultBuildTemp, "aliases"), "directory holding the generated alias packages")
	cmd.Flags().StringVar(&opts.InstallLib, "install-lib", "", "install tree to copy the alias packages into (required)")

	cmd.MarkFlagRequired("install-lib")

	return cmd
}
