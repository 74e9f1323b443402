package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/aliases"
	"github.com/emenda-labs/apigen/core/cli"
	pythondriver "github.com/emenda-labs/apigen/drivers/python"
	"github.com/emenda-labs/apigen/pkg/deprecation"
)

func runLint(ctx context.Context, opts cli.LintOptions) error {
	logger := log.FromContext(ctx)
	p := cli.NewProgress(ctx)

	tree, err := newDriver(opts.AnnotationModule, pythondriver.WithKeepGenerated()).ExtractTree(ctx, opts.Source)
	if err != nil {
		return err
	}
	if _, err := aliases.Plan(tree); err != nil {
		return err
	}

	overdue := 0
	for _, sym := range tree.Symbols {
		dep := sym.Record.Deprecation
		if dep == nil || opts.Release == "" {
			continue
		}
		due, err := deprecation.Overdue(dep.AvailableUntil, opts.Release)
		if err != nil {
			return err
		}
		if due {
			logger.Error("Deprecated symbol is due for removal",
				"symbol", dep.PublicName, "available_until", dep.AvailableUntil, "at", fmt.Sprintf("%s:%d", sym.File, sym.Line))
			overdue++
		}
	}
	if overdue > 0 {
		return fmt.Errorf("%d deprecated symbols are due for removal in release %s", overdue, opts.Release)
	}

	p.Done(fmt.Sprintf("Checked %d annotated symbols", len(tree.Symbols)))
	return nil
}
