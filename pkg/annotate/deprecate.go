package annotate

import (
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/pkg/apierr"
	"github.com/emenda-labs/apigen/pkg/deprecation"
)

// DefaultDeprecator uses the Default registry and logs warnings with the
// default charmbracelet logger.
var DefaultDeprecator = NewDeprecator()

var selfPackage = reflect.TypeOf(Deprecator{}).PkgPath()

// Handler receives the warning of every external call to a deprecated function.
type Handler func(deprecation.Warning)

// Deprecator wraps deprecated functions.
type Deprecator struct {
	registry  *Registry
	formatter deprecation.Formatter
	internal  []string
	handler   Handler
	caller    func() string
}

// Option configures a Deprecator.
type Option func(*Deprecator)

// WithRegistry sets the registry deprecations are recorded in and public
// names are looked up from.
func WithRegistry(r *Registry) Option {
	return func(d *Deprecator) { d.registry = r }
}

// WithLibraryName sets the library named in the warnings.
func WithLibraryName(name string) Option {
	return func(d *Deprecator) { d.formatter.LibraryName = name }
}

// WithInternalPrefixes sets the caller package prefixes that never trigger a
// warning.
func WithInternalPrefixes(prefixes ...string) Option {
	return func(d *Deprecator) { d.internal = append(d.internal, prefixes...) }
}

// WithHandler replaces the default log handler.
func WithHandler(h Handler) Option {
	return func(d *Deprecator) { d.handler = h }
}

// WithCallerFunc replaces stack inspection: fn returns the package path of the
// code calling the deprecated function.
func WithCallerFunc(fn func() string) Option {
	return func(d *Deprecator) { d.caller = fn }
}

// NewDeprecator creates a Deprecator backed by the Default registry.
func NewDeprecator(opts ...Option) *Deprecator {
	d := &Deprecator{
		registry: Default,
		handler:  logWarning,
		caller:   callerPackage,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func logWarning(w deprecation.Warning) {
	log.Warn(w.Message, "category", w.Category)
}

type deprecateOptions struct {
	recommendations []string
	availableUntil  string
	publicName      string
}

// DeprecateOption configures Deprecate.
type DeprecateOption func(*deprecateOptions)

// Recommend lists the replacements to use instead. At least one is required.
func Recommend(paths ...string) DeprecateOption {
	return func(o *deprecateOptions) { o.recommendations = append(o.recommendations, paths...) }
}

// AvailableUntil sets the "major.minor" release the symbol is removed in.
func AvailableUntil(version string) DeprecateOption {
	return func(o *deprecateOptions) { o.availableUntil = version }
}

// PublicName overrides the name reported in the warning.
func PublicName(name string) DeprecateOption {
	return func(o *deprecateOptions) { o.publicName = name }
}

// Deprecate marks symbol as deprecated and wraps target.
//
// A func target is returned as a func of the same type that warns, then
// forwards its arguments and results unchanged. A pointer to a struct has each
// non-nil exported func field wrapped in place, reported as Name.Field, and is
// returned as is. Any other target is a configuration error.
//
// Without PublicName, the reported name is the primary public path registered
// for symbol, else the last segment of symbol.
func (d *Deprecator) Deprecate(symbol string, target any, opts ...DeprecateOption) (any, error) {
	if _, _, err := publication.SplitPath(symbol); err != nil {
		return nil, err
	}
	var o deprecateOptions
	for _, opt := range opts {
		opt(&o)
	}
	name := o.publicName
	if name == "" {
		name = d.registry.publicName(symbol)
	}
	if _, err := d.formatter.Message(name, o.recommendations, o.availableUntil); err != nil {
		return nil, err
	}

	v := reflect.ValueOf(target)
	switch {
	case v.Kind() == reflect.Func && !v.IsNil():
		wrapped, err := d.wrap(name, v, o)
		if err != nil {
			return nil, err
		}
		d.record(symbol, name, o)
		return wrapped.Interface(), nil

	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct:
		elem := v.Elem()
		fields := make(map[int]reflect.Value)
		for i := 0; i < elem.NumField(); i++ {
			field := elem.Type().Field(i)
			fv := elem.Field(i)
			if !field.IsExported() || fv.Kind() != reflect.Func || fv.IsNil() {
				continue
			}
			// Wrap a copy: the field itself is about to be replaced.
			wrapped, err := d.wrap(name+"."+field.Name, reflect.ValueOf(fv.Interface()), o)
			if err != nil {
				return nil, err
			}
			fields[i] = wrapped
		}
		for i, wrapped := range fields {
			elem.Field(i).Set(wrapped)
		}
		d.record(symbol, name, o)
		return target, nil
	}

	return nil, apierr.New(apierr.CodeUnsupportedSymbol,
		"Deprecation of something else than class or function: %s is %T.", symbol, target)
}

func (d *Deprecator) record(symbol, name string, o deprecateOptions) {
	d.registry.setDeprecation(symbol, publication.Deprecation{
		Recommendations: slices.Clone(o.recommendations),
		AvailableUntil:  o.availableUntil,
		PublicName:      name,
	})
}

func (d *Deprecator) wrap(name string, fn reflect.Value, o deprecateOptions) (reflect.Value, error) {
	message, err := d.formatter.Message(name, o.recommendations, o.availableUntil)
	if err != nil {
		return reflect.Value{}, err
	}
	w := deprecation.Warning{Name: name, Message: message, Category: deprecation.Category}
	variadic := fn.Type().IsVariadic()

	return reflect.MakeFunc(fn.Type(), func(args []reflect.Value) []reflect.Value {
		if !d.isInternal(d.caller()) {
			d.handler(w)
		}
		if variadic {
			return fn.CallSlice(args)
		}
		return fn.Call(args)
	}), nil
}

func (d *Deprecator) isInternal(pkg string) bool {
	for _, prefix := range d.internal {
		if strings.HasPrefix(pkg, prefix) {
			return true
		}
	}
	return false
}

// callerPackage returns the package of the first frame outside this package,
// reflect and the runtime.
func callerPackage() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		pkg := packageOf(frame.Function)
		if pkg != selfPackage && pkg != "reflect" && pkg != "runtime" && pkg != "" {
			return pkg
		}
		if !more {
			return ""
		}
	}
}

// packageOf extracts the package path from a fully qualified function name
// such as "example.com/mod/pkg.(*T).Method.func1".
func packageOf(function string) string {
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}

// DeprecateFunc is Deprecate for a func of static type F.
func DeprecateFunc[F any](d *Deprecator, symbol string, fn F, opts ...DeprecateOption) (F, error) {
	var zero F
	if reflect.TypeOf(fn) == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return zero, apierr.New(apierr.CodeUnsupportedSymbol,
			"Deprecation of something else than class or function: %s is %T.", symbol, fn)
	}
	wrapped, err := d.Deprecate(symbol, fn, opts...)
	if err != nil {
		return zero, err
	}
	return wrapped.(F), nil
}

// MustDeprecateFunc is DeprecateFunc for package-level declarations. It panics
// on a configuration error.
func MustDeprecateFunc[F any](d *Deprecator, symbol string, fn F, opts ...DeprecateOption) F {
	wrapped, err := DeprecateFunc(d, symbol, fn, opts...)
	if err != nil {
		panic(err)
	}
	return wrapped
}
