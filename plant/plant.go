package plant

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/juiceplant/errors"
	"github.com/kbukum/juiceplant/logger"
	"github.com/kbukum/juiceplant/observability"
	"github.com/kbukum/juiceplant/orange"
	"github.com/kbukum/juiceplant/pipeline"
	"github.com/kbukum/juiceplant/validation"
)

// Plant is one producer/consumer pair working on oranges.
type Plant struct {
	label   string
	log     *logger.Logger
	metrics *observability.PlantMetrics
	tracer  trace.Tracer
	line    *pipeline.Line[*orange.Orange]

	started  atomic.Bool
	finished chan struct{}
}

// Option configures a Plant.
type Option func(*options)

type options struct {
	unitLimit int64
	log       *logger.Logger
	meter     metric.Meter
	tracer    trace.Tracer
}

// WithUnitLimit makes the producer stop on its own after n oranges.
func WithUnitLimit(n int64) Option {
	return func(o *options) { o.unitLimit = n }
}

// WithLogger sets the plant's logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMeter sets the meter the plant's counters are reported to.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithTracer sets the tracer used for the plant.run span.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New creates an idle plant identified by label.
func New(label string, opts ...Option) (*Plant, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if err := validation.New().
		Required("label", label).
		NonNegative("unit_limit", o.unitLimit).
		Validate(); err != nil {
		return nil, err
	}

	if o.log == nil {
		o.log = logger.Get("plant")
	}
	if o.meter == nil {
		o.meter = observability.Meter(observability.InstrumentationName)
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}

	metrics, err := observability.NewPlantMetrics(o.meter)
	if err != nil {
		return nil, errors.Internal(err)
	}

	p := &Plant{
		label:    label,
		log:      o.log.WithFields(logger.Fields(logger.FieldPlant, label)),
		metrics:  metrics,
		tracer:   o.tracer,
		finished: make(chan struct{}),
	}

	p.line, err = pipeline.NewLine(label, p.newOrange, []pipeline.Stage[*orange.Orange]{
		{Name: label + " Worker[0]", Work: fetchAndPeel, OnDone: p.provided},
		{Name: label + " Worker[1]", Work: squeezeAndBottle, OnDone: p.processed},
	}, pipeline.WithLimit(o.unitLimit), pipeline.WithLogger(p.log))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Plant) newOrange(context.Context) (*orange.Orange, error) {
	return orange.New(), nil
}

// fetchAndPeel takes a fresh orange up to the hand-off state.
func fetchAndPeel(_ context.Context, o *orange.Orange) (*orange.Orange, error) {
	o.AdvanceTo(HandoffState)
	return o, nil
}

// squeezeAndBottle finishes an orange received from the producer.
func squeezeAndBottle(_ context.Context, o *orange.Orange) (*orange.Orange, error) {
	if o.State() != HandoffState {
		return nil, errors.New(errors.ErrCodeInternal,
			fmt.Sprintf("orange %s handed off in state %s, want %s", o.ID(), o.State(), HandoffState)).
			WithDetail(logger.FieldOrangeID, o.ID().String()).
			WithDetail(logger.FieldState, o.State().String())
	}
	o.AdvanceTo(orange.Terminal())
	return o, nil
}

func (p *Plant) provided(ctx context.Context, _ *orange.Orange) {
	p.metrics.RecordProvided(ctx, p.label)
}

func (p *Plant) processed(ctx context.Context, _ *orange.Orange) {
	p.metrics.RecordProcessed(ctx, p.label)
}

// Label returns the plant's identifying label.
func (p *Plant) Label() string { return p.label }

// Workers returns the worker names, producer first.
func (p *Plant) Workers() []string { return p.line.Stages() }

// Start launches both workers. Cancelling ctx aborts the plant without
// draining; use Stop for an orderly shutdown.
func (p *Plant) Start(ctx context.Context) error {
	runCtx, span := p.tracer.Start(ctx, observability.SpanPlantRun,
		trace.WithAttributes(attribute.String(observability.AttrPlant, p.label)))

	if err := p.line.Start(runCtx); err != nil {
		span.End()
		return err
	}
	p.started.Store(true)
	p.metrics.RecordStarted(runCtx, p.label)

	go p.finish(runCtx, span)
	return nil
}

// finish records the end of the run once both workers have exited.
func (p *Plant) finish(ctx context.Context, span trace.Span) {
	<-p.line.Done()
	ctx = context.WithoutCancel(ctx)

	c := p.Snapshot()
	p.metrics.RecordStopped(ctx, p.label)
	span.SetAttributes(observability.CountAttributes(c.Provided, c.Processed, c.Bottles, c.Waste)...)

	if err := p.line.Err(); err != nil {
		span.RecordError(err)
		p.log.Warn("plant aborted", logger.MergeWithError(logger.Fields(
			logger.FieldProvided, c.Provided,
			logger.FieldProcessed, c.Processed,
		), err))
	} else {
		p.log.Info("plant stopped", logger.Fields(
			logger.FieldProvided, c.Provided,
			logger.FieldProcessed, c.Processed,
			logger.FieldBottles, c.Bottles,
			logger.FieldWaste, c.Waste,
		))
	}
	span.End()
	close(p.finished)
}

// Stop asks the plant to stop taking new oranges. It never blocks.
func (p *Plant) Stop() { p.line.Stop() }

// WaitToStop blocks until both workers have exited. It returns nil after an
// orderly stop and the abort cause otherwise. If ctx ends first the failure
// is logged with the workers' identities and returned as STOP_CANCELED; the
// plant keeps shutting down and WaitToStop may be called again.
func (p *Plant) WaitToStop(ctx context.Context) error {
	if !p.started.Load() {
		return errors.NotStarted(p.label)
	}
	select {
	case <-p.finished:
		return p.line.Err()
	case <-ctx.Done():
		for _, w := range p.line.Stages() {
			p.log.Warn(w+" stop malfunction", logger.Fields(
				logger.FieldWorker, w,
				logger.FieldError, ctx.Err().Error(),
			))
		}
		return errors.StopCanceled(p.label, ctx.Err())
	}
}

// Running reports whether the plant is taking new oranges.
func (p *Plant) Running() bool { return p.line.Running() }

// Done returns a channel closed once the plant has fully stopped and its
// counters are final.
func (p *Plant) Done() <-chan struct{} { return p.finished }

// ProvidedOranges returns how many oranges the producer handed off. Read
// it only after WaitToStop returned or Done is closed.
func (p *Plant) ProvidedOranges() int64 { return p.line.Created() }

// ProcessedOranges returns how many oranges were bottled. Read it only
// after WaitToStop returned or Done is closed.
func (p *Plant) ProcessedOranges() int64 { return p.line.Completed() }

// Bottles returns the number of full bottles.
func (p *Plant) Bottles() int64 { return BottlesFor(p.ProcessedOranges()) }

// Waste returns the processed oranges that did not fill a bottle.
func (p *Plant) Waste() int64 { return WasteFor(p.ProcessedOranges()) }

// Snapshot returns all counters at once.
func (p *Plant) Snapshot() Counts {
	return NewCounts(p.label, p.ProvidedOranges(), p.ProcessedOranges())
}
