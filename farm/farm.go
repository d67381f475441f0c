package farm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/juiceplant/component"
	"github.com/kbukum/juiceplant/errors"
	"github.com/kbukum/juiceplant/logger"
	"github.com/kbukum/juiceplant/observability"
	"github.com/kbukum/juiceplant/plant"
)

// Farm runs a fixed number of plants for a fixed duration.
type Farm struct {
	cfg    Config
	log    *logger.Logger
	meter  metric.Meter
	tracer trace.Tracer

	mu     sync.RWMutex
	plants []*plant.Plant
}

// Option configures a Farm.
type Option func(*Farm)

// WithLogger sets the farm's logger. Plants get a child of it.
func WithLogger(l *logger.Logger) Option {
	return func(f *Farm) { f.log = l }
}

// WithMeter sets the meter handed to every plant.
func WithMeter(m metric.Meter) Option {
	return func(f *Farm) { f.meter = m }
}

// WithTracer sets the tracer for the farm and its plants.
func WithTracer(t trace.Tracer) Option {
	return func(f *Farm) { f.tracer = t }
}

// New validates cfg and returns an idle farm.
func New(cfg Config, opts ...Option) (*Farm, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Farm{cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.Get("farm")
	}
	if f.meter == nil {
		f.meter = observability.Meter(observability.InstrumentationName)
	}
	if f.tracer == nil {
		f.tracer = observability.Tracer(observability.InstrumentationName)
	}
	return f, nil
}

// Config returns the effective configuration.
func (f *Farm) Config() Config { return f.cfg }

// Plants returns the plants of the current or last run.
func (f *Farm) Plants() []*plant.Plant {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*plant.Plant, len(f.plants))
	copy(out, f.plants)
	return out
}

// Run starts all plants, lets them work for the configured duration and
// then stops and joins them. Cancelling ctx ends the working period early
// but still performs an orderly stop. If some plant cannot be joined
// within the stop timeout, Run returns a report covering the plants that
// did stop together with the error.
func (f *Farm) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := f.log.WithFields(logger.Fields(logger.FieldRunID, runID))

	ctx, span := f.tracer.Start(ctx, observability.SpanFarmRun, trace.WithAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.Int(observability.AttrPlants, f.cfg.Plants),
	))
	defer span.End()

	plants, err := f.build(log)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	registry := component.NewRegistry()
	registry.SetStopTimeout(f.cfg.StopTimeout)
	for _, p := range plants {
		if err := registry.Register(plant.AsComponent(p)); err != nil {
			return nil, errors.Internal(err)
		}
	}

	// plants must outlive ctx so a cancelled run still drains
	workCtx := context.WithoutCancel(ctx)
	started := time.Now()

	log.Info("Starting plants", logger.Fields(
		"plants", f.cfg.Plants,
		"duration", f.cfg.Duration.String(),
		"unit_limit", f.cfg.UnitLimit,
	))
	if err := registry.StartAll(workCtx); err != nil {
		_ = registry.StopAll(workCtx)
		span.RecordError(err)
		return nil, err
	}

	f.work(ctx, plants, log)

	for _, p := range plants {
		p.Stop()
	}
	stopErr := registry.StopAll(workCtx)
	elapsed := time.Since(started)

	counts := make([]plant.Counts, 0, len(plants))
	for _, p := range plants {
		select {
		case <-p.Done():
			counts = append(counts, p.Snapshot())
		default:
			log.Warn("plant did not stop, counters omitted", logger.Fields(logger.FieldPlant, p.Label()))
		}
	}

	report := newReport(runID, elapsed, counts)
	span.SetAttributes(observability.CountAttributes(
		report.Total.Provided, report.Total.Processed, report.Total.Bottles, report.Total.Waste)...)

	if stopErr != nil {
		span.RecordError(stopErr)
		log.Error("Farm stopped with errors", logger.ErrorFields("stop", stopErr))
		return report, stopErr
	}

	log.Info("Farm stopped", logger.Fields(
		logger.FieldProvided, report.Total.Provided,
		logger.FieldProcessed, report.Total.Processed,
		logger.FieldBottles, report.Total.Bottles,
		logger.FieldWaste, report.Total.Waste,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return report, nil
}

func (f *Farm) build(log *logger.Logger) ([]*plant.Plant, error) {
	plants := make([]*plant.Plant, f.cfg.Plants)
	for i := range plants {
		p, err := plant.New(fmt.Sprintf("Plant[%d]", i),
			plant.WithUnitLimit(f.cfg.UnitLimit),
			plant.WithLogger(log),
			plant.WithMeter(f.meter),
			plant.WithTracer(f.tracer),
		)
		if err != nil {
			return nil, err
		}
		plants[i] = p
	}

	f.mu.Lock()
	f.plants = plants
	f.mu.Unlock()
	return plants, nil
}

// work blocks for the configured duration. It returns early when ctx ends
// or when every plant has stopped on its own.
func (f *Farm) work(ctx context.Context, plants []*plant.Plant, log *logger.Logger) {
	timer := time.NewTimer(f.cfg.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-allDone(plants):
		log.Debug("All plants finished before the deadline")
	case <-ctx.Done():
		log.Warn("Run interrupted, stopping plants", logger.ErrorFields("run", ctx.Err()))
	}
}

func allDone(plants []*plant.Plant) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for _, p := range plants {
			<-p.Done()
		}
		close(done)
	}()
	return done
}
