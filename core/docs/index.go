// Package docs builds the API reference of a library from its publication
// metadata: one mkdocstrings stub page per public module and a navigation
// section that mirrors the module hierarchy.
package docs

import (
	"sort"

	"github.com/emenda-labs/apigen/core/publication"
)

// Entry is a public object documented on a module page.
type Entry struct {
	Path  string // physical path of the object
	Order int
}

// Index maps each primary public module to the objects documented on its page,
// sorted by descending order, then by path.
type Index map[string][]Entry

// BuildIndex groups the public symbols by their primary module. Symbols that
// only carry internal aliases or a deprecation are not documented.
func BuildIndex(symbols []publication.Symbol) Index {
	ix := make(Index)
	for _, s := range symbols {
		if !s.Record.Public {
			continue
		}
		module := s.Record.PrimaryModule(s.Module)
		ix[module] = append(ix[module], Entry{Path: s.Path(), Order: s.Record.Order})
	}
	for _, entries := range ix {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Order != entries[j].Order {
				return entries[i].Order > entries[j].Order
			}
			return entries[i].Path < entries[j].Path
		})
	}
	return ix
}

// Modules returns the documented modules in sorted order.
func (ix Index) Modules() []string {
	modules := make([]string, 0, len(ix))
	for m := range ix {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}

// Paths returns the object paths of module in page order.
func (ix Index) Paths(module string) []string {
	entries := ix[module]
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
