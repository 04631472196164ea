package di

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/injex/errors"
	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/observability"
)

// RegistrationInfo describes a registry entry for introspection.
type RegistrationInfo struct {
	Identifier Identifier
	// Deprecated is true until the entry is first resolved.
	Deprecated bool
	// Pending is true while a lazy instance has not been constructed.
	Pending bool
}

type entry struct {
	value      any
	deprecated atomic.Bool
}

// lazyValue is a placeholder that builds the real value on first resolve.
type lazyValue interface {
	materialize(ctx context.Context) (any, error)
	pending() bool
}

// Registry maps identifiers to registered values.
// It is safe for concurrent use.
type Registry struct {
	name    string
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer

	mu      sync.RWMutex
	entries map[Identifier]*entry
}

// New creates an empty registry.
func New(opts ...RegistryOption) *Registry {
	r := &Registry{
		name:    "default",
		entries: make(map[Identifier]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = observability.DefaultTracer()
	}
	return r
}

// Name returns the registry's label.
func (r *Registry) Name() string {
	return r.name
}

// Register stores value under id, replacing any previous entry.
// The value is stored as-is. The only failure is a nil identifier; the
// empty Name is an ordinary key.
func (r *Registry) Register(id Identifier, value any, opts ...Option) error {
	if id == nil {
		return errors.IdentifierRequired()
	}
	o := applyOptions(opts)

	e := &entry{value: value}
	e.deprecated.Store(o.deprecated)

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()

	r.metrics.RecordRegistration(context.Background(), r.name)
	r.logFor(id).Debug("dependency registered", logger.Fields("deprecated", o.deprecated))
	return nil
}

// Resolve returns the value registered under id, or a DEPENDENCY_NOT_FOUND
// error when there is none.
func (r *Registry) Resolve(id Identifier) (any, error) {
	return r.ResolveContext(context.Background(), id)
}

// ResolveContext is Resolve with a context for tracing lazy construction.
func (r *Registry) ResolveContext(ctx context.Context, id Identifier) (any, error) {
	v, _, err := r.resolve(ctx, id, true)
	return v, err
}

// Lookup returns the value registered under id and whether one was found.
// It never fails: a missing entry or a failed lazy construction reports false.
func (r *Registry) Lookup(id Identifier) (any, bool) {
	v, found, _ := r.resolve(context.Background(), id, false)
	return v, found
}

// Has reports whether id has an entry. It neither constructs lazy
// instances nor clears deprecation flags.
func (r *Registry) Has(id Identifier) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Registrations returns info about all entries, ordered by identifier.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.RLock()
	result := make([]RegistrationInfo, 0, len(r.entries))
	for id, e := range r.entries {
		info := RegistrationInfo{Identifier: id, Deprecated: e.deprecated.Load()}
		if lazy, ok := e.value.(lazyValue); ok {
			info.Pending = lazy.pending()
		}
		result = append(result, info)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Identifier.String() < result[j].Identifier.String()
	})
	return result
}

// Reset removes every entry. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = make(map[Identifier]*entry)
	r.mu.Unlock()
}

// resolve looks id up. When necessary is false every failure is reported
// as not found instead of an error.
func (r *Registry) resolve(ctx context.Context, id Identifier, necessary bool) (any, bool, error) {
	if id == nil {
		if necessary {
			return nil, false, errors.IdentifierRequired()
		}
		return nil, false, nil
	}

	r.mu.RLock()
	e, ok := r.entries[id]
	var value any
	if ok {
		value = e.value
	}
	r.mu.RUnlock()

	if !ok {
		r.metrics.RecordResolution(ctx, r.name, observability.OutcomeMiss)
		if necessary {
			return nil, false, errors.DependencyResolution(id.String())
		}
		return nil, false, nil
	}

	if lazy, isLazy := value.(lazyValue); isLazy {
		v, err := lazy.materialize(ctx)
		if err != nil {
			r.metrics.RecordResolution(ctx, r.name, observability.OutcomeMiss)
			if necessary {
				return nil, false, err
			}
			return nil, false, nil
		}
		value = v
	}

	r.metrics.RecordResolution(ctx, r.name, observability.OutcomeHit)
	if e.deprecated.CompareAndSwap(true, false) {
		r.warnDeprecated(ctx, id)
	}
	return value, true, nil
}

// replace swaps the entry for id to value if it still holds placeholder.
func (r *Registry) replace(id Identifier, placeholder, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok && e.value == placeholder {
		e.value = value
	}
}

func (r *Registry) warnDeprecated(ctx context.Context, id Identifier) {
	r.metrics.RecordDeprecation(ctx, r.name, id.String())
	r.logFor(id).Warn(fmt.Sprintf("Dependency %s is deprecated", id))
}

func (r *Registry) startSpan(ctx context.Context, name string, id Identifier) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String(observability.AttrRegistry, r.name),
		attribute.String(observability.AttrIdentifier, identifierString(id)),
	))
}

func (r *Registry) logger() *logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.Get(LoggerComponent)
}

func (r *Registry) logFor(id Identifier) *logger.Logger {
	return r.logger().ForDependency(r.name, id.String())
}
