package python

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/drivers/python/pyast"
	"github.com/emenda-labs/apigen/drivers/python/symbols"
)

// Loader builds the module tree of a set of Python sources. Modules are only
// parsed, never imported.
type Loader struct {
	parser  *pyast.Parser
	modules map[string]*symbols.Object
	loaded  map[string]bool
}

// NewLoader creates an empty Loader.
func NewLoader(parser *pyast.Parser) *Loader {
	return &Loader{
		parser:  parser,
		modules: make(map[string]*symbols.Object),
		loaded:  make(map[string]bool),
	}
}

// Module returns the loaded module or package at path, or nil.
func (l *Loader) Module(path string) *symbols.Object {
	return l.modules[path]
}

// ModulePaths returns the paths of all loaded modules, sorted.
func (l *Loader) ModulePaths() []string {
	paths := make([]string, 0, len(l.modules))
	for p := range l.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// LoadTree discovers and loads every module under root, deleting generated
// alias packages when removeGenerated is set (see DiscoverModules). A file
// that cannot be read or parsed is logged and skipped.
func (l *Loader) LoadTree(ctx context.Context, root string, removeGenerated bool) ([]SourceFile, error) {
	files, err := DiscoverModules(ctx, root, removeGenerated)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := l.loadFile(ctx, f); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.FromContext(ctx).Warn("Skipping module", "file", f.Rel, "err", err)
		}
	}
	return files, nil
}

// LoadModule locates module name in the search paths and loads it together
// with all of its submodules.
func (l *Loader) LoadModule(ctx context.Context, searchPaths []string, name string) error {
	if err := publication.ValidatePath(name); err != nil {
		return fmt.Errorf("invalid module name %q: %w", name, err)
	}
	if l.loaded[name] {
		return nil
	}

	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))
	for _, sp := range searchPaths {
		dir := filepath.Join(sp, rel)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			files, err := discover(ctx, dir, name, false)
			if err != nil {
				return err
			}
			l.ensureModule(name, symbols.KindPackage)
			l.loaded[name] = true
			for _, f := range files {
				if err := l.loadFile(ctx, f); err != nil {
					log.FromContext(ctx).Warn("Skipping module", "file", f.Path, "err", err)
				}
			}
			return nil
		}

		file := filepath.Join(sp, rel+".py")
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return l.loadFile(ctx, SourceFile{Path: file, Rel: filepath.ToSlash(rel) + ".py", Module: name})
		}
	}
	return fmt.Errorf("module %q not found in search paths %v", name, searchPaths)
}

func (l *Loader) loadFile(ctx context.Context, f SourceFile) error {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Path, err)
	}
	parsed, err := l.parser.Parse(ctx, content, f.Rel)
	if err != nil {
		return err
	}
	if parsed.SyntaxErrors {
		log.FromContext(ctx).Warn("Source contains syntax errors, extracting what parses", "file", f.Rel)
	}

	kind := symbols.KindModule
	if f.Package {
		kind = symbols.KindPackage
	}
	mod := l.ensureModule(f.Module, kind)
	mod.File = f.Path
	l.loaded[f.Module] = true

	for _, m := range parsed.Members {
		obj := l.member(ctx, mod, f, m)
		if existing, ok := mod.Members[m.Name]; ok && existing.IsModule() && existing.Path == mod.Path+"."+m.Name {
			// Submodules stay reachable even when the package rebinds their name.
			continue
		}
		mod.Members[m.Name] = obj
	}
	return nil
}

// ensureModule returns the module object at path, creating it and any missing
// parent packages.
func (l *Loader) ensureModule(path string, kind symbols.Kind) *symbols.Object {
	if obj, ok := l.modules[path]; ok {
		if kind == symbols.KindPackage {
			obj.Kind = symbols.KindPackage
		}
		return obj
	}
	obj := symbols.NewModule(path, kind)
	l.modules[path] = obj
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		parent := l.ensureModule(path[:i], symbols.KindPackage)
		parent.Members[obj.Name] = obj
	}
	return obj
}

func (l *Loader) member(ctx context.Context, mod *symbols.Object, f SourceFile, m pyast.Member) *symbols.Object {
	obj := &symbols.Object{
		Kind: symbols.KindOther,
		Name: m.Name,
		Path: mod.Path + "." + m.Name,
		File: f.Path,
		Line: m.Line,
	}

	switch m.Kind {
	case pyast.MemberClass:
		obj.Kind = symbols.KindClass
		obj.Decorators = m.Decorators
	case pyast.MemberFunction:
		obj.Kind = symbols.KindFunction
		obj.Decorators = m.Decorators
	case pyast.MemberImport:
		target, ok := absoluteImport(mod.Path, f.Package, *m.Import)
		if !ok {
			log.FromContext(ctx).Debug("Relative import beyond top-level package", "file", f.Rel, "line", m.Line)
			break
		}
		obj.Kind = symbols.KindAlias
		obj.Target = target
	case pyast.MemberAssign:
		if m.Ref == "" {
			break
		}
		if target, ok := localReference(mod, m.Ref); ok {
			obj.Kind = symbols.KindAlias
			obj.Target = target
		}
	}
	return obj
}

// absoluteImport resolves a possibly relative import made in module.
func absoluteImport(module string, isPackage bool, imp pyast.Import) (string, bool) {
	if imp.Level == 0 {
		return imp.Path, imp.Path != ""
	}
	base := strings.Split(module, ".")
	if !isPackage {
		base = base[:len(base)-1]
	}
	up := imp.Level - 1
	if up > len(base) {
		return "", false
	}
	base = base[:len(base)-up]
	if len(base) == 0 {
		return imp.Path, imp.Path != ""
	}
	if imp.Path == "" {
		return strings.Join(base, "."), true
	}
	return strings.Join(base, ".") + "." + imp.Path, true
}

// localReference resolves the first segment of a dotted reference through the
// names bound so far in mod.
func localReference(mod *symbols.Object, ref string) (string, bool) {
	first, rest, _ := strings.Cut(ref, ".")
	bound, ok := mod.Members[first]
	if !ok {
		return "", false
	}
	base := bound.Path
	if bound.Kind == symbols.KindAlias {
		base = bound.Target
	}
	if rest == "" {
		return base, true
	}
	return base + "." + rest, true
}
