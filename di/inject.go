package di

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/injex/errors"
	"github.com/kbukum/injex/observability"
)

// Field is a dependency injected on first read. The first Get resolves the
// identifier, applies the field's initializer and fixes the outcome: later
// reads return the same value or error without touching the registry again.
//
// A zero Field uses the resolved value as-is once Bind has given it an
// identifier. Field must not be copied after first use.
type Field[T any] struct {
	id       Identifier
	optional bool
	registry *Registry
	build    func(ctx context.Context, r *Registry, id Identifier, v any) (T, error)

	once     sync.Once
	resolved atomic.Bool
	value    T
	err      error
}

// Inject declares a field holding the value registered under id.
// A nil id is filled in by Bind.
func Inject[T any](id Identifier, opts ...FieldOption) *Field[T] {
	return newField[T](id, nil, opts)
}

// InjectFunc declares a field holding fn applied to the value registered
// under id. An error or panic from fn surfaces as INITIALIZATION_FAILED.
//
//	client := di.InjectFunc(di.Name("config"), func(cfg *Config) (*Client, error) {
//	    return NewClient(cfg.URL)
//	})
func InjectFunc[D, T any](id Identifier, fn func(D) (T, error), opts ...FieldOption) *Field[T] {
	return newField[T](id, func(_ context.Context, _ *Registry, id Identifier, v any) (T, error) {
		var zero T
		dep, err := assertAs[D](id, v)
		if err != nil {
			return zero, err
		}
		out, err := safeCall(func() (T, error) { return fn(dep) })
		if err != nil {
			return zero, errors.Initialization(id.String(), err)
		}
		return out, nil
	}, opts)
}

// InjectNew declares a field holding a new instance built from the
// constructor registered under id. The registered value must be a
// func() X, a func() (X, error) or a reflect.Type; anything else fails with
// NO_INSTANTIATION_METHOD.
func InjectNew[T any](id Identifier, opts ...FieldOption) *Field[T] {
	return newField[T](id, func(ctx context.Context, r *Registry, id Identifier, v any) (T, error) {
		var zero T
		ctor, ok := constructorOf(v)
		if !ok {
			return zero, errors.NoInstantiationMethod(id.String())
		}

		start := time.Now()
		instance, err := safeCall(ctor)
		if err != nil {
			r.metrics.RecordConstruction(ctx, r.name, observability.OutcomeFailure, time.Since(start))
			return zero, errors.Injector(id.String(), err)
		}
		r.metrics.RecordConstruction(ctx, r.name, observability.OutcomeSuccess, time.Since(start))
		return assertAs[T](id, instance)
	}, opts)
}

func newField[T any](id Identifier, build func(context.Context, *Registry, Identifier, any) (T, error), opts []FieldOption) *Field[T] {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Field[T]{
		id:       id,
		optional: o.optional,
		registry: o.registry,
		build:    build,
	}
}

// Get returns the injected value, resolving it on first call.
func (f *Field[T]) Get() (T, error) {
	return f.GetContext(context.Background())
}

// GetContext is Get with a context for tracing. Only the first call's
// context is used.
func (f *Field[T]) GetContext(ctx context.Context) (T, error) {
	f.once.Do(func() {
		f.value, f.err = f.compute(ctx)
		f.resolved.Store(true)
	})
	return f.value, f.err
}

// MustGet is Get that panics on error.
func (f *Field[T]) MustGet() T {
	v, err := f.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Resolved reports whether the field's outcome has been fixed.
func (f *Field[T]) Resolved() bool {
	return f.resolved.Load()
}

// Identifier returns the identifier the field resolves, or nil if unbound.
func (f *Field[T]) Identifier() Identifier {
	return f.id
}

func (f *Field[T]) compute(ctx context.Context) (T, error) {
	var zero T
	if missing(f.id) {
		return zero, errors.IdentifierRequired()
	}

	r := orGlobal(f.registry)
	ctx, span := r.startSpan(ctx, observability.SpanInject, f.id)

	value, err := safeCall(func() (T, error) { return f.inject(ctx, r) })
	if err != nil {
		err = classify(f.id, err)
		if f.optional {
			value, err = zero, nil
		}
	}

	observability.EndSpan(span, err)
	return value, err
}

func (f *Field[T]) inject(ctx context.Context, r *Registry) (T, error) {
	var zero T
	v, found, err := r.resolve(ctx, f.id, !f.optional)
	if err != nil || !found {
		return zero, err
	}
	if f.build == nil {
		return assertAs[T](f.id, v)
	}
	// An initializer never sees a nil dependency.
	if isNil(v) {
		if f.optional {
			return zero, nil
		}
		return zero, errors.DependencyResolution(f.id.String())
	}
	return f.build(ctx, r, f.id, v)
}

// classify keeps registry errors that carry their own kind and wraps
// anything else as INJECTOR_FAILED.
func classify(id Identifier, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		if errors.IsPassThroughCode(appErr.Code) || appErr.Code == errors.ErrCodeInjectorFailed {
			return err
		}
	}
	return errors.Injector(id.String(), err)
}

type bindable interface {
	bindTo(r *Registry, id Identifier, optional bool)
}

var bindableType = reflect.TypeOf((*bindable)(nil)).Elem()

func (f *Field[T]) bindTo(r *Registry, id Identifier, optional bool) {
	if f.registry == nil {
		f.registry = r
	}
	if missing(f.id) {
		f.id = id
	}
	if optional {
		f.optional = true
	}
}

// Bind prepares the exported Field members of the struct pointed to by
// target. Nil *Field pointers are allocated. Fields without an identifier
// take it from the `inject` tag or, failing that, from the field's name:
//
//	type Handler struct {
//	    Store  *di.Field[*Store]                      // "Store"
//	    Cache  *di.Field[Cache] `inject:"cache"`      // "cache"
//	    Tracer *di.Field[Tracer] `inject:",optional"` // "Tracer", optional
//	    Skip   *di.Field[any]   `inject:"-"`
//	}
//
// Embedded fields have no name to derive an identifier from; reading one
// without an explicit identifier fails with IDENTIFIER_REQUIRED.
// A nil r means the global registry.
func Bind(r *Registry, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.Injector("", fmt.Errorf("bind target must be a non-nil pointer to a struct, got %T", target))
	}

	sv := rv.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("inject")
		if tag == "-" {
			continue
		}

		fv := sv.Field(i)
		var b bindable
		switch {
		case fv.Kind() == reflect.Pointer && fv.Type().Implements(bindableType):
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			b = fv.Interface().(bindable)
		case fv.Addr().Type().Implements(bindableType):
			b = fv.Addr().Interface().(bindable)
		default:
			continue
		}

		name, optional := parseInjectTag(tag)
		var id Identifier
		switch {
		case name != "":
			id = Name(name)
		case !sf.Anonymous:
			id = Name(sf.Name)
		}
		b.bindTo(r, id, optional)
	}
	return nil
}

func parseInjectTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "optional" {
			optional = true
		}
	}
	return strings.TrimSpace(parts[0]), optional
}
