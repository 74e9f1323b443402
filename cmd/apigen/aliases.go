package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/emenda-labs/apigen/core/aliases"
	"github.com/emenda-labs/apigen/core/cli"
)

func runBuildAliases(w io.Writer) cli.BuildAliasesRunFunc {
	return func(ctx context.Context, opts cli.BuildAliasesOptions) error {
		p := cli.NewProgress(ctx)

		res, err := aliases.Generate(ctx, newDriver(opts.AnnotationModule), opts.Source, opts.Dest)
		if err != nil {
			return err
		}
		p.Done(fmt.Sprintf("Generated %d alias packages in %s", len(res.Files), opts.Dest))

		if opts.JSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		for _, out := range res.Outputs {
			fmt.Fprintln(w, out)
		}
		return nil
	}
}

func runInstallAliases(w io.Writer) cli.InstallAliasesRunFunc {
	return func(ctx context.Context, opts cli.InstallAliasesOptions) error {
		p := cli.NewProgress(ctx)

		installed, err := aliases.Install(ctx, opts.AliasesDir, opts.InstallLib)
		if err != nil {
			return err
		}
		p.Done(fmt.Sprintf("Installed %d alias files into %s", len(installed), opts.InstallLib))

		for _, f := range installed {
			fmt.Fprintln(w, f)
		}
		return nil
	}
}
