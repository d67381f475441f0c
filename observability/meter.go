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

	"github.com/kbukum/juiceplant/logger"
)

// InstrumentationName is the meter and tracer name used by the plant packages.
const InstrumentationName = "github.com/kbukum/juiceplant"

// Metric names.
const (
	MetricOrangesProvided  = "juiceplant.oranges.provided"
	MetricOrangesProcessed = "juiceplant.oranges.processed"
	MetricPlantsRunning    = "juiceplant.plants.running"
)

// AttrPlant is the attribute key carrying a plant's label.
const AttrPlant = "plant"

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
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

	res, err := newResource(ctx, config.ServiceName, config.ServiceVersion, config.Environment)
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

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PlantMetrics holds the instruments a plant reports to.
type PlantMetrics struct {
	provided  metric.Int64Counter
	processed metric.Int64Counter
	running   metric.Int64UpDownCounter
}

// NewPlantMetrics creates plant instruments on the given meter.
func NewPlantMetrics(meter metric.Meter) (*PlantMetrics, error) {
	provided, err := meter.Int64Counter(MetricOrangesProvided,
		metric.WithDescription("Oranges fetched and peeled, ready for hand-off"),
		metric.WithUnit("{orange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOrangesProvided, err)
	}

	processed, err := meter.Int64Counter(MetricOrangesProcessed,
		metric.WithDescription("Oranges squeezed and bottled"),
		metric.WithUnit("{orange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOrangesProcessed, err)
	}

	running, err := meter.Int64UpDownCounter(MetricPlantsRunning,
		metric.WithDescription("Plants whose workers are live"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricPlantsRunning, err)
	}

	return &PlantMetrics{
		provided:  provided,
		processed: processed,
		running:   running,
	}, nil
}

func plantAttrs(plant string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String(AttrPlant, plant))
}

// RecordProvided counts one orange handed off by the plant's producer stage.
func (m *PlantMetrics) RecordProvided(ctx context.Context, plant string) {
	m.provided.Add(ctx, 1, plantAttrs(plant))
}

// RecordProcessed counts one orange bottled by the plant's consumer stage.
func (m *PlantMetrics) RecordProcessed(ctx context.Context, plant string) {
	m.processed.Add(ctx, 1, plantAttrs(plant))
}

// RecordStarted marks a plant's workers as live.
func (m *PlantMetrics) RecordStarted(ctx context.Context, plant string) {
	m.running.Add(ctx, 1, plantAttrs(plant))
}

// RecordStopped marks a plant's workers as joined.
func (m *PlantMetrics) RecordStopped(ctx context.Context, plant string) {
	m.running.Add(ctx, -1, plantAttrs(plant))
}
