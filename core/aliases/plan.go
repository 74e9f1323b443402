// Package aliases turns the publication metadata of a source tree into alias
// packages: generated __init__.py files that re-export annotated symbols under
// their public paths.
package aliases

import (
	"sort"
	"strings"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/pkg/apierr"
)

// Unit is one generated alias package.
type Unit struct {
	Module  string                         // dotted path of the alias package
	RelPath string                         // slash-separated path of its __init__.py
	Aliases []publication.AliasDeclaration // sorted, without duplicates
	Content string
}

// Plan validates every alias declared in tree and renders one Unit per target
// module, sorted by module. Nothing is returned unless the whole batch is valid.
func Plan(tree publication.Tree) ([]Unit, error) {
	decls, err := tree.Declarations()
	if err != nil {
		return nil, err
	}

	byTarget := make(map[string][]publication.AliasDeclaration)
	for _, d := range decls {
		byTarget[d.TargetModule] = append(byTarget[d.TargetModule], d)
	}

	checker := newCollisionChecker(tree)
	targets := make([]string, 0, len(byTarget))
	for target := range byTarget {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	units := make([]Unit, 0, len(targets))
	for _, target := range targets {
		if err := checker.check(target); err != nil {
			return nil, err
		}
		aliases, err := dedupe(target, byTarget[target])
		if err != nil {
			return nil, err
		}
		units = append(units, Unit{
			Module:  target,
			RelPath: strings.ReplaceAll(target, ".", "/") + "/__init__.py",
			Aliases: aliases,
			Content: Render(aliases),
		})
	}
	return units, nil
}

type collisionChecker struct {
	modules  map[string]bool
	packages map[string]bool
}

func newCollisionChecker(tree publication.Tree) collisionChecker {
	c := collisionChecker{modules: make(map[string]bool), packages: make(map[string]bool)}
	for _, m := range tree.SourceModules {
		c.modules[m] = true
	}
	for _, p := range tree.SourcePackages {
		c.packages[p] = true
	}
	return c
}

// check rejects a target that is a real package, or that lies inside a real
// module file.
func (c collisionChecker) check(target string) error {
	if c.packages[target] {
		return apierr.New(apierr.CodePathCollision,
			"Aliases are attempted to be created at %s, but the package already exists in the source files.", target)
	}
	for _, parent := range publication.ModuleParents(target) {
		if c.modules[parent] {
			return apierr.New(apierr.CodePathCollision,
				"Aliases are attempted to be created at %s, but the module %s already exists in the source files.", target, parent)
		}
	}
	return nil
}

// dedupe sorts the declarations of one target by (from, object, alias) and
// drops exact repeats. Two different origins for one alias name are rejected.
func dedupe(target string, decls []publication.AliasDeclaration) ([]publication.AliasDeclaration, error) {
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.FromModule != b.FromModule {
			return a.FromModule < b.FromModule
		}
		if a.ObjectName != b.ObjectName {
			return a.ObjectName < b.ObjectName
		}
		return a.AliasName < b.AliasName
	})

	declared := make(map[string]string, len(decls))
	out := decls[:0:0]
	for _, d := range decls {
		origin := d.Origin()
		if prev, ok := declared[d.AliasName]; ok {
			if prev == origin {
				continue
			}
			return nil, apierr.New(apierr.CodeDuplicateAlias,
				"%s is attempted to be exported as %s in %s, but the package already contains this alias, set to %s.",
				origin, d.AliasName, target, prev)
		}
		declared[d.AliasName] = origin
		out = append(out, d)
	}
	return out, nil
}

// Render returns the content of an alias package: the marker line, then for
// each declaration an import of its module (once per module) and the
// assignment that re-exports the object.
func Render(aliases []publication.AliasDeclaration) string {
	var b strings.Builder
	b.WriteString(publication.MagicComment)
	imported := make(map[string]bool)
	for _, a := range aliases {
		if !imported[a.FromModule] {
			b.WriteString("import " + a.FromModule + "\n")
			imported[a.FromModule] = true
		}
		b.WriteString(a.AliasName + " = " + a.Origin() + "\n")
	}
	return b.String()
}
