package driver

import (
	"context"

	"github.com/emenda-labs/apigen/core/publication"
)

// Extractor is the interface each language driver implements to recover
// publication metadata from source code without executing it.
type Extractor interface {
	// ExtractTree scans every module under root and returns the annotated symbols
	// together with the real source modules and packages of the tree.
	// Previously generated alias packages are never treated as sources; drivers
	// delete them unless configured otherwise.
	ExtractTree(ctx context.Context, root string) (publication.Tree, error)

	// ExtractModules loads the given root modules, and all their submodules, from
	// the search paths and returns their annotated symbols. Modules that cannot be
	// located are skipped with a warning. Nothing on disk is modified.
	ExtractModules(ctx context.Context, searchPaths, modules []string) ([]publication.Symbol, error)
}
