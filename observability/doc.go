// Package observability wires OpenTelemetry metrics and tracing for the
// juice plant.
//
// Setup installs OTLP/HTTP meter and tracer providers when enabled. Without
// it the global otel providers stay no-op, so instruments created by
// NewPlantMetrics cost nothing.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
//	m, err := observability.NewPlantMetrics(observability.Meter(observability.InstrumentationName))
//	m.RecordProvided(ctx, "Plant[0]")
package observability
