package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/injex/config"
	"github.com/kbukum/injex/observability"
)

const instrumentationName = "github.com/kbukum/injex"

// setupTelemetry starts the OTLP providers the registry config asks for.
// Nothing is started without a telemetry endpoint.
func (a *App[C]) setupTelemetry(ctx context.Context, base *config.Config) error {
	tel := base.Telemetry
	if !tel.Enabled() {
		return nil
	}

	if base.Registry.Metrics {
		mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       tel.Endpoint,
			Insecure:       tel.Insecure,
			Interval:       tel.MetricInterval,
		})
		if err != nil {
			return fmt.Errorf("initializing meter: %w", err)
		}
		a.shutdowns = append(a.shutdowns, mp.Shutdown)

		metrics, err := observability.NewMetrics(mp.Meter(instrumentationName))
		if err != nil {
			_ = a.shutdownTelemetry(ctx)
			return err
		}
		a.Metrics = metrics
	}

	if base.Registry.Tracing {
		tp, err := observability.InitTracer(ctx, &observability.TracerConfig{
			ServiceName:    base.Name,
			ServiceVersion: base.Version,
			Environment:    base.Environment,
			Endpoint:       tel.Endpoint,
			Insecure:       tel.Insecure,
			SampleRate:     tel.SampleRate,
		})
		if err != nil {
			_ = a.shutdownTelemetry(ctx)
			return fmt.Errorf("initializing tracer: %w", err)
		}
		a.shutdowns = append(a.shutdowns, tp.Shutdown)
		a.tracer = tp.Tracer(instrumentationName)
	}

	return nil
}

// shutdownTelemetry flushes and stops providers in reverse start order,
// returning the first error.
func (a *App[C]) shutdownTelemetry(ctx context.Context) error {
	var first error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.shutdowns = nil
	return first
}
