package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("juiceplant")

	if cfg.ServiceName != "juiceplant" {
		t.Errorf("expected ServiceName 'juiceplant', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("juiceplant")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %s", cfg.Endpoint)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	bad := Config{SampleRate: 2}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for sample_rate above 1")
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "juiceplant", "dev", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("rate %v: expected %s, got %s", tt.rate, tt.want, got)
		}
	}
}

func TestPlantMetricsNoop(t *testing.T) {
	m, err := NewPlantMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	m.RecordStarted(ctx, "Plant[0]")
	m.RecordProvided(ctx, "Plant[0]")
	m.RecordProcessed(ctx, "Plant[0]")
	m.RecordStopped(ctx, "Plant[0]")
}

func TestPlantMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewPlantMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	m.RecordStarted(ctx, "Plant[0]")
	for range 4 {
		m.RecordProvided(ctx, "Plant[0]")
	}
	for range 3 {
		m.RecordProcessed(ctx, "Plant[0]")
	}
	m.RecordProvided(ctx, "Plant[1]")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	if got := sumFor(rm, MetricOrangesProvided, "Plant[0]"); got != 4 {
		t.Errorf("expected 4 provided for Plant[0], got %d", got)
	}
	if got := sumFor(rm, MetricOrangesProvided, "Plant[1]"); got != 1 {
		t.Errorf("expected 1 provided for Plant[1], got %d", got)
	}
	if got := sumFor(rm, MetricOrangesProcessed, "Plant[0]"); got != 3 {
		t.Errorf("expected 3 processed, got %d", got)
	}
	if got := sumFor(rm, MetricPlantsRunning, "Plant[0]"); got != 1 {
		t.Errorf("expected 1 running, got %d", got)
	}
}

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(InstrumentationName).Start(context.Background(), SpanPlantRun)
	span.SetAttributes(CountAttributes(4, 4, 1, 1)...)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanPlantRun {
		t.Errorf("expected span %s, got %s", SpanPlantRun, spans[0].Name)
	}
	found := false
	for _, kv := range spans[0].Attributes {
		if kv.Key == AttrBottles && kv.Value.AsInt64() == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected bottles attribute on span")
	}
}

// sumFor returns the int64 sum data point of the named metric for a plant.
func sumFor(rm metricdata.ResourceMetrics, name, plant string) int64 {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return -1
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key(AttrPlant)); ok && v.AsString() == plant {
					return dp.Value
				}
			}
		}
	}
	return 0
}
