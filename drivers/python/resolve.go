package python

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/drivers/python/pyast"
	"github.com/emenda-labs/apigen/drivers/python/symbols"
	"github.com/emenda-labs/apigen/pkg/apierr"
	"github.com/emenda-labs/apigen/pkg/deprecation"
)

// maxAliasHops bounds how many re-exports are followed to resolve a name.
const maxAliasHops = 16

// Annotation names, relative to the annotation module.
const (
	annotationPublic      = "public"
	annotationAlsoAvail   = "also_available_as"
	annotationDeprecated  = "deprecated"
	keywordOrder          = "order"
	keywordAvailableUntil = "available_until"
	keywordPublicName     = "public_name"
)

// Resolve is the second pass over the loaded modules: it follows decorator
// names through imports and re-exports of already loaded modules and turns
// every recognized annotation into a publication record. References that
// cannot be resolved are ignored. Malformed annotations are configuration
// errors.
func (l *Loader) Resolve(ctx context.Context, annotationModule string) error {
	logger := log.FromContext(ctx)
	for _, path := range l.ModulePaths() {
		mod := l.modules[path]
		for _, name := range mod.MemberNames() {
			obj := mod.Members[name]
			if obj.Kind != symbols.KindClass && obj.Kind != symbols.KindFunction {
				continue
			}
			if obj.Path != mod.Path+"."+name || len(obj.Decorators) == 0 {
				continue
			}
			rec, err := l.interpret(ctx, mod, obj, annotationModule)
			if err != nil {
				return err
			}
			if rec != nil {
				logger.Debug("Found annotated symbol", "symbol", obj.Path, "public", rec.Public)
			}
			obj.Record = rec
		}
	}
	return nil
}

// resolveName returns every absolute path a dotted name used in mod goes
// through, from the imported name to the object it finally designates.
func (l *Loader) resolveName(mod *symbols.Object, name string) ([]string, bool) {
	path, ok := localReference(mod, name)
	if !ok {
		return nil, false
	}
	return l.follow(path)
}

// follow walks re-exports through loaded modules until path names something
// that is not an alias, or leaves the loaded tree. It returns the visited
// paths in order.
func (l *Loader) follow(path string) ([]string, bool) {
	chain := []string{path}
	for hop := 0; hop < maxAliasHops; hop++ {
		modPath, rest := l.longestModulePrefix(path)
		if modPath == "" || rest == "" {
			return chain, true
		}
		first, tail, _ := strings.Cut(rest, ".")
		member, ok := l.modules[modPath].Members[first]
		if !ok {
			return chain, false
		}
		if member.Kind != symbols.KindAlias {
			return chain, true
		}
		path = member.Target
		if tail != "" {
			path += "." + tail
		}
		chain = append(chain, path)
	}
	return chain, false
}

func (l *Loader) longestModulePrefix(path string) (module, rest string) {
	for candidate := path; candidate != ""; {
		if _, ok := l.modules[candidate]; ok {
			return candidate, strings.TrimPrefix(strings.TrimPrefix(path, candidate), ".")
		}
		i := strings.LastIndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[:i]
	}
	return "", path
}

// annotationKind returns the annotation one of the resolved paths
// designates, or "". Annotations are recognized at the top of the annotation
// module and in the submodules defining them.
func annotationKind(chain []string, annotationModule string) string {
	for _, path := range chain {
		rest, ok := strings.CutPrefix(path, annotationModule+".")
		if !ok {
			continue
		}
		switch rest {
		case annotationPublic, annotationAlsoAvail, annotationDeprecated:
			return rest
		case "aliases." + annotationPublic, "aliases." + annotationAlsoAvail:
			return strings.TrimPrefix(rest, "aliases.")
		case "deprecation." + annotationDeprecated:
			return annotationDeprecated
		}
	}
	return ""
}

func (l *Loader) interpret(ctx context.Context, mod *symbols.Object, obj *symbols.Object, annotationModule string) (*publication.Record, error) {
	var rec publication.Record
	var annotated bool
	var public *publication.Record
	var deprecated *pyast.Decorator

	for i := range obj.Decorators {
		d := &obj.Decorators[i]
		if d.Callee == "" {
			continue
		}
		chain, ok := l.resolveName(mod, d.Callee)
		if !ok {
			log.FromContext(ctx).Debug("Unresolved decorator", "symbol", obj.Path, "decorator", d.Callee)
			continue
		}

		switch annotationKind(chain, annotationModule) {
		case annotationPublic:
			r, err := publicRecord(obj, d)
			if err != nil {
				return nil, err
			}
			if public != nil && !public.Equal(r) {
				return nil, annotationError(obj, d, apierr.CodeInvalidAnnotation,
					"%s is published twice with different paths", obj.Path)
			}
			public = &r
		case annotationAlsoAvail:
			paths, err := stringArgs(obj, d, "internal alias paths")
			if err != nil {
				return nil, err
			}
			for _, p := range paths {
				if err := publication.ValidatePath(p); err != nil {
					return nil, annotationError(obj, d, apierr.CodeInvalidPath, "%v", apierr.UserMessage(err))
				}
			}
			rec.InternalPaths = append(rec.InternalPaths, paths...)
			annotated = true
		case annotationDeprecated:
			deprecated = d
		}
	}

	if public != nil {
		rec.Public = true
		rec.PrimaryPath = public.PrimaryPath
		rec.AliasPaths = public.AliasPaths
		rec.Order = public.Order
		annotated = true
	}

	if deprecated != nil {
		dep, err := deprecationRecord(obj, deprecated, rec)
		if err != nil {
			return nil, err
		}
		rec.Deprecation = dep
		annotated = true
	}

	if !annotated {
		return nil, nil
	}
	return &rec, nil
}

func publicRecord(obj *symbols.Object, d *pyast.Decorator) (publication.Record, error) {
	rec := publication.Record{Public: true}
	if !d.Call {
		return rec, nil
	}

	for i, arg := range d.Args {
		if arg.Kind != pyast.ValueString {
			if i == 0 {
				return rec, annotationError(obj, d, apierr.CodeInvalidAnnotation,
					"The primary public path must be a string representing an import path, got %s.", arg.Text)
			}
			return rec, annotationError(obj, d, apierr.CodeInvalidAnnotation,
				"public paths must be string literals, got %s", arg.Text)
		}
		if arg.Str != "" {
			if err := publication.ValidatePath(arg.Str); err != nil {
				return rec, annotationError(obj, d, apierr.CodeInvalidPath, "%v", apierr.UserMessage(err))
			}
		}
		if i == 0 {
			rec.PrimaryPath = arg.Str
		} else {
			rec.AliasPaths = append(rec.AliasPaths, arg.Str)
		}
	}

	for _, kw := range d.Keywords {
		if kw.Name != keywordOrder {
			return rec, annotationError(obj, d, apierr.CodeInvalidAnnotation, "unexpected keyword argument %q", kw.Name)
		}
		switch kw.Value.Kind {
		case pyast.ValueInt:
			rec.Order = kw.Value.Int
		case pyast.ValueNone:
		default:
			return rec, annotationError(obj, d, apierr.CodeInvalidAnnotation, "order must be an integer literal, got %s", kw.Value.Text)
		}
	}
	return rec, nil
}

func deprecationRecord(obj *symbols.Object, d *pyast.Decorator, rec publication.Record) (*publication.Deprecation, error) {
	recs, err := stringArgs(obj, d, "deprecation recommendations")
	if err != nil {
		return nil, err
	}

	dep := &publication.Deprecation{Recommendations: recs}
	for _, kw := range d.Keywords {
		var target *string
		switch kw.Name {
		case keywordAvailableUntil:
			target = &dep.AvailableUntil
		case keywordPublicName:
			target = &dep.PublicName
		default:
			return nil, annotationError(obj, d, apierr.CodeInvalidDeprecation, "unexpected keyword argument %q", kw.Name)
		}
		switch kw.Value.Kind {
		case pyast.ValueString:
			*target = kw.Value.Str
		case pyast.ValueNone:
		default:
			return nil, annotationError(obj, d, apierr.CodeInvalidDeprecation,
				"%s must be a string literal or None, got %s", kw.Name, kw.Value.Text)
		}
	}

	if dep.PublicName == "" {
		dep.PublicName = rec.PublicName(obj.Name)
	}
	if _, err := deprecation.Message(dep.PublicName, dep.Recommendations, dep.AvailableUntil); err != nil {
		return nil, annotationError(obj, d, apierr.CodeInvalidDeprecation, "%s", apierr.UserMessage(err))
	}
	return dep, nil
}

func stringArgs(obj *symbols.Object, d *pyast.Decorator, what string) ([]string, error) {
	out := make([]string, 0, len(d.Args))
	for _, arg := range d.Args {
		if arg.Kind != pyast.ValueString {
			return nil, annotationError(obj, d, apierr.CodeInvalidAnnotation, "%s must be string literals, got %s", what, arg.Text)
		}
		out = append(out, arg.Str)
	}
	return out, nil
}

func annotationError(obj *symbols.Object, d *pyast.Decorator, code apierr.Code, format string, args ...any) error {
	return apierr.New(code, "%s:%d: %s: %s", obj.File, d.Line, obj.Path, fmt.Sprintf(format, args...))
}

// Symbols returns every annotated class and function of the loaded modules,
// sorted by path. Resolve must have run first.
func (l *Loader) Symbols() []publication.Symbol {
	var out []publication.Symbol
	for _, path := range l.ModulePaths() {
		mod := l.modules[path]
		for _, name := range mod.MemberNames() {
			obj := mod.Members[name]
			if obj.Record == nil || obj.Path != mod.Path+"."+name {
				continue
			}
			kind := publication.SymbolFunction
			if obj.Kind == symbols.KindClass {
				kind = publication.SymbolClass
			}
			out = append(out, publication.Symbol{
				Module: mod.Path,
				Name:   name,
				Kind:   kind,
				File:   obj.File,
				Line:   obj.Line,
				Record: *obj.Record,
			})
		}
	}
	return out
}
