package symbols

import (
	"sort"
	"strings"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/drivers/python/pyast"
)

// Kind identifies what a loaded object is.
type Kind string

const (
	KindModule   Kind = "module"
	KindPackage  Kind = "package"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindAlias    Kind = "alias"
	KindOther    Kind = "other"
)

// Object is a node of the loaded module tree. Which fields are meaningful
// depends on Kind:
//   - KindModule, KindPackage: Members (submodules included), File.
//   - KindClass, KindFunction: Decorators, and Record once resolved.
//   - KindAlias: Target, the absolute dotted path the name was imported from.
type Object struct {
	Kind       Kind
	Name       string
	Path       string
	File       string
	Line       int
	Target     string
	Decorators []pyast.Decorator
	Members    map[string]*Object
	Record     *publication.Record
}

// NewModule creates an empty module or package object.
func NewModule(path string, kind Kind) *Object {
	name := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		name = path[i+1:]
	}
	return &Object{Kind: kind, Name: name, Path: path, Members: make(map[string]*Object)}
}

// IsModule reports whether the object is a module or a package.
func (o *Object) IsModule() bool {
	return o.Kind == KindModule || o.Kind == KindPackage
}

// Module returns the module path of a non-module object.
func (o *Object) Module() string {
	if i := strings.LastIndexByte(o.Path, '.'); i >= 0 {
		return o.Path[:i]
	}
	return ""
}

// MemberNames returns the member names in sorted order.
func (o *Object) MemberNames() []string {
	names := make([]string, 0, len(o.Members))
	for name := range o.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WalkModules calls fn for o and, recursively, every submodule of o in sorted
// order. Aliases to modules are not followed.
func (o *Object) WalkModules(fn func(*Object)) {
	if !o.IsModule() {
		return
	}
	fn(o)
	for _, name := range o.MemberNames() {
		member := o.Members[name]
		if member.IsModule() && member.Path == o.Path+"."+name {
			member.WalkModules(fn)
		}
	}
}
