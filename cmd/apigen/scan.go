package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/emenda-labs/apigen/core/cli"
	pythondriver "github.com/emenda-labs/apigen/drivers/python"
)

func runScan(w io.Writer) cli.ScanRunFunc {
	return func(ctx context.Context, opts cli.ScanOptions) error {
		tree, err := newDriver(opts.AnnotationModule, pythondriver.WithKeepGenerated()).ExtractTree(ctx, opts.Source)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}
}
