package python

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/driver"
	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/drivers/python/pyast"
)

// DefaultAnnotationModule is the module the annotation decorators are imported from.
const DefaultAnnotationModule = "apigen"

var _ driver.Extractor = (*Driver)(nil)

// Driver implements driver.Extractor for Python source trees.
type Driver struct {
	parser           *pyast.Parser
	annotationModule string
	keepGenerated    bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithAnnotationModule sets the module the annotation decorators live in.
func WithAnnotationModule(module string) Option {
	return func(d *Driver) {
		if module != "" {
			d.annotationModule = module
		}
	}
}

// WithKeepGenerated makes ExtractTree leave stale alias packages on disk. They
// are still ignored as sources.
func WithKeepGenerated() Option {
	return func(d *Driver) { d.keepGenerated = true }
}

// WithParser replaces the default parser.
func WithParser(p *pyast.Parser) Option {
	return func(d *Driver) { d.parser = p }
}

// NewDriver creates a Driver with a default pyast.Parser.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		parser:           pyast.NewParser(),
		annotationModule: DefaultAnnotationModule,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExtractTree loads every module under root and returns its annotated symbols
// together with the source modules and packages of the tree.
func (d *Driver) ExtractTree(ctx context.Context, root string) (publication.Tree, error) {
	loader := NewLoader(d.parser)
	files, err := loader.LoadTree(ctx, root, !d.keepGenerated)
	if err != nil {
		return publication.Tree{}, fmt.Errorf("loading %s: %w", root, err)
	}
	if err := loader.Resolve(ctx, d.annotationModule); err != nil {
		return publication.Tree{}, err
	}

	tree := publication.Tree{Symbols: loader.Symbols()}
	for _, f := range files {
		if f.Package {
			tree.SourcePackages = append(tree.SourcePackages, f.Module)
		} else {
			tree.SourceModules = append(tree.SourceModules, f.Module)
		}
	}
	sort.Strings(tree.SourceModules)
	sort.Strings(tree.SourcePackages)

	log.FromContext(ctx).Debug("Extracted source tree", "root", root,
		"modules", len(tree.SourceModules), "packages", len(tree.SourcePackages), "symbols", len(tree.Symbols))
	return tree, nil
}

// ExtractModules loads the given root modules from the search paths and
// returns their annotated symbols.
func (d *Driver) ExtractModules(ctx context.Context, searchPaths, modules []string) ([]publication.Symbol, error) {
	loader := NewLoader(d.parser)
	for _, name := range modules {
		if err := loader.LoadModule(ctx, searchPaths, name); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.FromContext(ctx).Warn("Could not load module", "module", name, "err", err)
		}
	}
	if err := loader.Resolve(ctx, d.annotationModule); err != nil {
		return nil, err
	}
	return loader.Symbols(), nil
}
