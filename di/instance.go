package di

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/observability"
)

// Instance is a lazily constructed singleton registered by RegisterInstance.
// Until first use the registry holds the Instance itself; the first Get, or
// the first resolve of its identifier, builds the value exactly once and
// replaces the registry entry with it.
type Instance[T any] struct {
	id       Identifier
	registry *Registry
	init     func(newT func() T) (T, error)

	mu    sync.Mutex
	built atomic.Bool
	value T
}

// RegisterInstance registers a lazy singleton of T under WithIdentifier or,
// by default, T's own name. init receives a constructor for T and returns
// the instance; a nil init uses the constructor directly. A nil r means the
// global registry.
//
// Construction errors and panics reach the caller of the first access
// unchanged. A failed construction is retried on the next access.
func RegisterInstance[T any](r *Registry, init func(newT func() T) (T, error), opts ...Option) (*Instance[T], error) {
	r = orGlobal(r)
	o := applyOptions(opts)

	id := o.id
	if missing(id) {
		var err error
		if id, err = NameOf[T](); err != nil {
			return nil, err
		}
	}
	if init == nil {
		init = func(newT func() T) (T, error) { return newT(), nil }
	}

	inst := &Instance[T]{id: id, registry: r, init: init}
	if err := r.Register(id, inst, opts...); err != nil {
		return nil, err
	}
	return inst, nil
}

// Identifier returns the identifier the instance is registered under.
func (i *Instance[T]) Identifier() Identifier {
	return i.id
}

// Get returns the instance, constructing it on first call.
func (i *Instance[T]) Get() (T, error) {
	return i.GetContext(context.Background())
}

// GetContext is Get with a context for tracing construction.
func (i *Instance[T]) GetContext(ctx context.Context) (T, error) {
	if i.built.Load() {
		return i.value, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.built.Load() {
		return i.value, nil
	}

	r := i.registry
	ctx, span := r.startSpan(ctx, observability.SpanConstruct, i.id)
	start := time.Now()

	completed := false
	defer func() {
		if !completed {
			r.metrics.RecordConstruction(ctx, r.name, observability.OutcomeFailure, time.Since(start))
			span.End()
		}
	}()

	value, err := i.init(zeroConstructor[T]())
	completed = true
	if err != nil {
		r.metrics.RecordConstruction(ctx, r.name, observability.OutcomeFailure, time.Since(start))
		observability.EndSpan(span, err)
		i.log(ctx).Debug("lazy instance construction failed", logger.ErrorFields("construct", err))
		var zero T
		return zero, err
	}

	i.value = value
	i.built.Store(true)
	r.replace(i.id, i, value)

	elapsed := time.Since(start)
	r.metrics.RecordConstruction(ctx, r.name, observability.OutcomeSuccess, elapsed)
	observability.EndSpan(span, nil)
	i.log(ctx).Debug("lazy instance constructed", logger.DurationFields("construct", elapsed))
	return value, nil
}

func (i *Instance[T]) log(ctx context.Context) *logger.Logger {
	return i.registry.logFor(i.id).WithContext(ctx)
}

// MustGet is Get that panics on error.
func (i *Instance[T]) MustGet() T {
	v, err := i.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Constructed reports whether the instance has been built.
func (i *Instance[T]) Constructed() bool {
	return i.built.Load()
}

func (i *Instance[T]) materialize(ctx context.Context) (any, error) {
	return i.GetContext(ctx)
}

func (i *Instance[T]) pending() bool {
	return !i.Constructed()
}
