package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/injex/logger"
)

// Resolution and construction outcomes used as the "outcome" attribute.
const (
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get(logger.ComponentTelemetry).Info("meter initialized", logger.Fields(
		logger.FieldService, config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the registry's metric instruments.
type Metrics struct {
	registrations metric.Int64Counter
	resolutions   metric.Int64Counter
	deprecations  metric.Int64Counter
	constructions metric.Int64Counter
	constructTime metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	registrations, err := meter.Int64Counter("injex.registrations",
		metric.WithDescription("Number of entries written into a registry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injex.registrations counter: %w", err)
	}

	resolutions, err := meter.Int64Counter("injex.resolutions",
		metric.WithDescription("Registry lookups by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injex.resolutions counter: %w", err)
	}

	deprecations, err := meter.Int64Counter("injex.deprecations",
		metric.WithDescription("Deprecation notices emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injex.deprecations counter: %w", err)
	}

	constructions, err := meter.Int64Counter("injex.constructions",
		metric.WithDescription("Lazy instance and field constructions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injex.constructions counter: %w", err)
	}

	constructTime, err := meter.Float64Histogram("injex.construction.duration",
		metric.WithDescription("Duration of lazy constructions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injex.construction.duration histogram: %w", err)
	}

	return &Metrics{
		registrations: registrations,
		resolutions:   resolutions,
		deprecations:  deprecations,
		constructions: constructions,
		constructTime: constructTime,
	}, nil
}

// RecordRegistration counts a write into registry.
func (m *Metrics) RecordRegistration(ctx context.Context, registry string) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrRegistry, registry)))
}

// RecordResolution counts a lookup with the given outcome (OutcomeHit or OutcomeMiss).
func (m *Metrics) RecordResolution(ctx context.Context, registry, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRegistry, registry),
		attribute.String(AttrOutcome, outcome),
	))
}

// RecordDeprecation counts an emitted deprecation notice.
func (m *Metrics) RecordDeprecation(ctx context.Context, registry, identifier string) {
	if m == nil {
		return
	}
	m.deprecations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRegistry, registry),
		attribute.String(AttrIdentifier, identifier),
	))
}

// RecordConstruction counts a lazy construction and records how long it took.
func (m *Metrics) RecordConstruction(ctx context.Context, registry, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.constructions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRegistry, registry),
		attribute.String(AttrOutcome, outcome),
	))
	m.constructTime.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrRegistry, registry),
	))
}
