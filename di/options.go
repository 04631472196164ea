package di

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/observability"
)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for deprecation and construction messages.
func WithLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithMetrics enables registry metrics.
func WithMetrics(m *observability.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithTracer enables spans around lazy construction and field injection.
func WithTracer(t trace.Tracer) RegistryOption {
	return func(r *Registry) { r.tracer = t }
}

// WithName labels the registry in logs, metrics and spans.
func WithName(name string) RegistryOption {
	return func(r *Registry) { r.name = name }
}

// Option configures a single registration.
type Option func(*registerOptions)

type registerOptions struct {
	id         Identifier
	deprecated bool
}

// Deprecated marks the entry so that its first successful resolution logs
// a deprecation notice.
func Deprecated() Option {
	return func(o *registerOptions) { o.deprecated = true }
}

// WithIdentifier sets the identifier used by RegisterType and
// RegisterInstance instead of the type's own name. Register ignores it.
func WithIdentifier(id Identifier) Option {
	return func(o *registerOptions) { o.id = id }
}

func applyOptions(opts []Option) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FieldOption configures an injected field.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	optional bool
	registry *Registry
}

// Optional makes a missing or failing dependency yield the zero value
// instead of an error. A field without an identifier still fails with
// IDENTIFIER_REQUIRED: that is a declaration mistake, not a missing
// dependency.
func Optional() FieldOption {
	return func(o *fieldOptions) { o.optional = true }
}

// From resolves the field against r instead of the global registry.
func From(r *Registry) FieldOption {
	return func(o *fieldOptions) { o.registry = r }
}
