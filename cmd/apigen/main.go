package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/apigen/core/cli"
	pythondriver "github.com/emenda-labs/apigen/drivers/python"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires the command tree; command output goes to stdout.
func newRootCmd(stdout io.Writer) *cobra.Command {
	var global cli.GlobalOptions

	root := cli.NewRootCmd(version, &global)
	root.SetOut(stdout)
	root.AddCommand(
		cli.NewBuildAliasesCmd(&global, runBuildAliases(stdout)),
		cli.NewInstallAliasesCmd(&global, runInstallAliases(stdout)),
		cli.NewDocsCmd(&global, runDocs(stdout)),
		cli.NewScanCmd(&global, runScan(stdout)),
		cli.NewLintCmd(&global, runLint),
		cli.NewDeprecationMessageCmd(&global),
	)
	return root
}

func newDriver(annotationModule string, opts ...pythondriver.Option) *pythondriver.Driver {
	return pythondriver.NewDriver(append([]pythondriver.Option{pythondriver.WithAnnotationModule(annotationModule)}, opts...)...)
}
