// Package annotate records publication metadata for Go values at definition
// time and wraps deprecated functions so that external callers are warned.
//
// Records use the same model as the static Python extractor, so a registry
// can feed the alias and documentation pipelines directly:
//
//	var _ = annotate.Public("mylib.jobs.Run", annotate.Paths("mylib.Run"))
//	var Run = annotate.MustDeprecateFunc(annotate.DefaultDeprecator, "mylib.jobs.Start", start,
//		annotate.Recommend("mylib.Run"), annotate.AvailableUntil("5.0"))
package annotate

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/pkg/apierr"
)

// Default is the process-wide registry used by the package-level functions.
var Default = NewRegistry()

// Registry holds at most one publication record per qualified symbol name.
// Annotating a symbol again updates its record. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*publication.Record
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*publication.Record)}
}

type publicOptions struct {
	paths []string
	order int
}

// PublicOption configures Public.
type PublicOption func(*publicOptions)

// Paths sets the public paths. The first is the primary path; "" stands for
// the declaration path.
func Paths(paths ...string) PublicOption {
	return func(o *publicOptions) { o.paths = append(o.paths, paths...) }
}

// Order sets the position on the module page. Higher values come first.
func Order(n int) PublicOption {
	return func(o *publicOptions) { o.order = n }
}

// Public marks symbol, a qualified "module.Name", as public API.
func (r *Registry) Public(symbol string, opts ...PublicOption) error {
	if _, _, err := publication.SplitPath(symbol); err != nil {
		return err
	}
	var o publicOptions
	for _, opt := range opts {
		opt(&o)
	}
	for _, p := range o.paths {
		if p == "" {
			continue
		}
		if _, _, err := publication.SplitPath(p); err != nil {
			return apierr.Wrap(apierr.CodeInvalidPath, err, "publishing %s", symbol)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(symbol)
	rec.Public = true
	rec.PrimaryPath, rec.AliasPaths = "", nil
	if len(o.paths) > 0 {
		rec.PrimaryPath = o.paths[0]
		rec.AliasPaths = slices.Clone(o.paths[1:])
	}
	rec.Order = o.order
	return nil
}

// AlsoAvailableAs adds internal alias paths for symbol. Paths already
// registered are not repeated.
func (r *Registry) AlsoAvailableAs(symbol string, paths ...string) error {
	if _, _, err := publication.SplitPath(symbol); err != nil {
		return err
	}
	for _, p := range paths {
		if _, _, err := publication.SplitPath(p); err != nil {
			return apierr.Wrap(apierr.CodeInvalidPath, err, "aliasing %s", symbol)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(symbol)
	for _, p := range paths {
		if !slices.Contains(rec.InternalPaths, p) {
			rec.InternalPaths = append(rec.InternalPaths, p)
		}
	}
	return nil
}

// Lookup returns a copy of the record of symbol.
func (r *Registry) Lookup(symbol string) (publication.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[symbol]
	if !ok {
		return publication.Record{}, false
	}
	return cloneRecord(*rec), true
}

// Records returns a snapshot of every record, sorted by symbol path.
func (r *Registry) Records() []publication.Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]publication.Symbol, 0, len(r.records))
	for symbol, rec := range r.records {
		module, name, _ := publication.SplitPath(symbol)
		out = append(out, publication.Symbol{Module: module, Name: name, Record: cloneRecord(*rec)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// Declarations flattens every record into alias declarations.
func (r *Registry) Declarations() ([]publication.AliasDeclaration, error) {
	return publication.Tree{Symbols: r.Records()}.Declarations()
}

func (r *Registry) setDeprecation(symbol string, dep publication.Deprecation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(symbol).Deprecation = &dep
}

// publicName resolves the name reported for a deprecated symbol.
func (r *Registry) publicName(symbol string) string {
	name := symbol[strings.LastIndexByte(symbol, '.')+1:]
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.records[symbol]; ok {
		return rec.PublicName(name)
	}
	return name
}

// record returns the record of symbol, creating it. Callers hold mu.
func (r *Registry) record(symbol string) *publication.Record {
	rec, ok := r.records[symbol]
	if !ok {
		rec = &publication.Record{}
		r.records[symbol] = rec
	}
	return rec
}

func cloneRecord(rec publication.Record) publication.Record {
	rec.AliasPaths = slices.Clone(rec.AliasPaths)
	rec.InternalPaths = slices.Clone(rec.InternalPaths)
	if rec.Deprecation != nil {
		dep := *rec.Deprecation
		dep.Recommendations = slices.Clone(dep.Recommendations)
		rec.Deprecation = &dep
	}
	return rec
}

// Public marks symbol as public in the Default registry.
func Public(symbol string, opts ...PublicOption) error {
	return Default.Public(symbol, opts...)
}

// AlsoAvailableAs adds internal alias paths in the Default registry.
func AlsoAvailableAs(symbol string, paths ...string) error {
	return Default.AlsoAvailableAs(symbol, paths...)
}
