package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/cli"
	"github.com/emenda-labs/apigen/core/docs"
	"github.com/emenda-labs/apigen/pkg/mkdocs"
)

func runDocs(w io.Writer) cli.DocsRunFunc {
	return func(ctx context.Context, opts cli.DocsOptions) error {
		logger := log.FromContext(ctx)
		p := cli.NewProgress(ctx)

		cfgFile, err := mkdocs.Load(opts.Config)
		if err != nil {
			return err
		}
		plugin, found, err := cfgFile.Plugin()
		if err != nil {
			return err
		}
		if !found {
			logger.Debug("No apigen plugin entry, using defaults", "config", opts.Config)
		}

		modules := plugin.Modules
		if len(opts.Modules) > 0 {
			modules = opts.Modules
		}
		if len(modules) == 0 {
			return fmt.Errorf("no modules to document: list them in the %s plugin options of %s or pass --module", mkdocs.PluginName, opts.Config)
		}

		if cfgFile.EnsurePlugin(mkdocs.DocsPlugin) {
			logger.Warn(fmt.Sprintf("'%s' not found in plugins list. Added automatically by apigen.", mkdocs.DocsPlugin))
		}

		base := filepath.Dir(opts.Config)
		searchPaths := make([]string, 0, len(plugin.Paths))
		for _, sp := range plugin.Paths {
			searchPaths = append(searchPaths, relativeTo(base, sp))
		}

		symbols, err := newDriver(opts.AnnotationModule).ExtractModules(ctx, searchPaths, modules)
		if err != nil {
			return err
		}

		site, err := docs.Build(symbols, docs.Config{
			Modules:      modules,
			APIRoot:      plugin.APIRootURI,
			SectionTitle: plugin.NavSectionTitle,
		})
		if err != nil {
			return err
		}

		if nav := cfgFile.Nav(); nav != nil {
			if err := docs.MergeSection(nav, plugin.NavSectionTitle, site.Nav.Items()); err != nil {
				return err
			}
		}

		if opts.DryRun {
			for _, page := range site.Pages {
				fmt.Fprintln(w, page.Path)
			}
			out, err := cfgFile.Bytes()
			if err != nil {
				return err
			}
			_, err = w.Write(out)
			return err
		}

		if err := docs.WritePages(ctx, relativeTo(base, cfgFile.DocsDir()), site.Pages); err != nil {
			return err
		}
		if err := cfgFile.Save(opts.Output); err != nil {
			return err
		}
		p.Done(fmt.Sprintf("Documented %d modules", len(site.Pages)))
		return nil
	}
}

func relativeTo(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
