// Package publication holds the data model shared by the extractor, the alias
// synthesizer and the documentation builder.
package publication

import (
	"slices"
	"strings"
)

// MagicComment is the first line of every file apigen generates. A file that
// starts with it is owned by apigen and may be overwritten or deleted.
const MagicComment = "# Code generated by apigen. DO NOT EDIT.\n"

// SymbolKind identifies what kind of annotated Python symbol this is.
type SymbolKind string

const (
	SymbolClass    SymbolKind = "class"
	SymbolFunction SymbolKind = "function"
)

// Deprecation describes a deprecated symbol.
type Deprecation struct {
	Recommendations []string `json:"recommendations"`
	AvailableUntil  string   `json:"available_until,omitempty"`
	PublicName      string   `json:"public_name"`
}

// Record is the publication metadata attached to a single symbol.
//
// PrimaryPath and AliasPaths are dotted import paths; an empty string stands for
// the declaration path of the symbol. InternalPaths come from the internal alias
// annotation: they are generated but never documented.
type Record struct {
	Public        bool         `json:"public"`
	PrimaryPath   string       `json:"primary_path,omitempty"`
	AliasPaths    []string     `json:"alias_paths,omitempty"`
	InternalPaths []string     `json:"internal_paths,omitempty"`
	Order         int          `json:"order"`
	Deprecation   *Deprecation `json:"deprecation,omitempty"`
}

// AliasDeclaration is one re-export to synthesize: TargetModule.AliasName = FromModule.ObjectName.
type AliasDeclaration struct {
	TargetModule string `json:"target_module"`
	FromModule   string `json:"from_module"`
	ObjectName   string `json:"object_name"`
	AliasName    string `json:"alias_name"`
	Internal     bool   `json:"internal,omitempty"`
}

// Origin is the fully qualified physical path the alias points to.
func (d AliasDeclaration) Origin() string {
	return d.FromModule + "." + d.ObjectName
}

// Target is the fully qualified path the alias creates.
func (d AliasDeclaration) Target() string {
	return d.TargetModule + "." + d.AliasName
}

// Symbol is an annotated class or function found at module scope.
type Symbol struct {
	Module string     `json:"module"`
	Name   string     `json:"name"`
	Kind   SymbolKind `json:"kind"`
	File   string     `json:"file,omitempty"`
	Line   int        `json:"line,omitempty"`
	Record Record     `json:"record"`
}

// Path returns the fully qualified physical path of the symbol.
func (s Symbol) Path() string {
	return s.Module + "." + s.Name
}

// Tree is everything extracted from one source tree.
type Tree struct {
	Symbols        []Symbol `json:"symbols"`
	SourceModules  []string `json:"source_modules"`
	SourcePackages []string `json:"source_packages"`
}

// Declarations flattens every annotated symbol of the tree into alias declarations.
func (t Tree) Declarations() ([]AliasDeclaration, error) {
	var decls []AliasDeclaration
	for _, sym := range t.Symbols {
		d, err := sym.Record.Declarations(sym.Module, sym.Name)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d...)
	}
	return decls, nil
}

// Paths returns the public paths in declaration order, primary first.
func (r Record) Paths() []string {
	if !r.Public {
		return nil
	}
	paths := make([]string, 0, 1+len(r.AliasPaths))
	paths = append(paths, r.PrimaryPath)
	return append(paths, r.AliasPaths...)
}

// Declarations returns the aliases needed to make the symbol fromModule.objectName
// importable under every path of the record. Empty paths and paths equal to the
// declaration path need no alias.
func (r Record) Declarations(fromModule, objectName string) ([]AliasDeclaration, error) {
	var decls []AliasDeclaration
	add := func(path string, internal bool) error {
		if path == "" {
			return nil
		}
		target, name, err := SplitPath(path)
		if err != nil {
			return err
		}
		if target == fromModule && name == objectName {
			return nil
		}
		decls = append(decls, AliasDeclaration{
			TargetModule: target,
			FromModule:   fromModule,
			ObjectName:   objectName,
			AliasName:    name,
			Internal:     internal,
		})
		return nil
	}

	for _, p := range r.Paths() {
		if err := add(p, false); err != nil {
			return nil, err
		}
	}
	for _, p := range r.InternalPaths {
		if err := add(p, true); err != nil {
			return nil, err
		}
	}
	return decls, nil
}

// PrimaryModule returns the module that documents the symbol: the module part of
// the primary path, or fromModule when the symbol is published where it is declared.
func (r Record) PrimaryModule(fromModule string) string {
	if r.PrimaryPath == "" {
		return fromModule
	}
	if i := strings.LastIndexByte(r.PrimaryPath, '.'); i > 0 {
		return r.PrimaryPath[:i]
	}
	return fromModule
}

// PublicName is the name reported in deprecation warnings when none is given
// explicitly: the primary path if there is one, else qualname.
func (r Record) PublicName(qualname string) string {
	if r.Public && r.PrimaryPath != "" {
		return r.PrimaryPath
	}
	return qualname
}

// Equal reports whether two records carry the same metadata.
func (r Record) Equal(o Record) bool {
	if r.Public != o.Public || r.PrimaryPath != o.PrimaryPath || r.Order != o.Order {
		return false
	}
	if !slices.Equal(r.AliasPaths, o.AliasPaths) || !slices.Equal(r.InternalPaths, o.InternalPaths) {
		return false
	}
	if (r.Deprecation == nil) != (o.Deprecation == nil) {
		return false
	}
	if r.Deprecation == nil {
		return true
	}
	return r.Deprecation.AvailableUntil == o.Deprecation.AvailableUntil &&
		r.Deprecation.PublicName == o.Deprecation.PublicName &&
		slices.Equal(r.Deprecation.Recommendations, o.Deprecation.Recommendations)
}
