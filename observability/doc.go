// Package observability provides OpenTelemetry tracing and metrics for the
// injex registry.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.DefaultTracer().Start(ctx, observability.SpanConstruct)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("injex"))
//	metrics.RecordResolution(ctx, "default", observability.OutcomeHit)
//
// A nil *Metrics is valid and records nothing.
package observability
