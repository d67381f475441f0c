package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/juiceplant/errors"
	"github.com/kbukum/juiceplant/handoff"
	"github.com/kbukum/juiceplant/logger"
)

// Source creates the next unit for the first stage.
type Source[T any] func(ctx context.Context) (T, error)

// Stage describes one worker of a Line: the contiguous range of work it
// performs on every unit it owns.
type Stage[T any] struct {
	// Name identifies the worker in logs and errors.
	Name string
	// Work transforms a unit. It runs while the stage exclusively owns v.
	Work func(ctx context.Context, v T) (T, error)
	// OnDone, if set, observes each unit after Work and before hand-off.
	OnDone func(ctx context.Context, v T)
}

// Line is a linear chain of stages. Stage i hands units to stage i+1
// through a single-slot handoff, so each stage runs in its own goroutine
// and at most one unit is in transit between any two stages.
type Line[T any] struct {
	name   string
	source Source[T]
	stages []Stage[T]
	slots  []*handoff.Slot[T]
	limit  int64
	log    *logger.Logger

	// counts[i] is written only by stage i's goroutine and is safe to read
	// once done is closed.
	counts []int64

	mu            sync.Mutex
	started       bool
	stopRequested bool
	running       atomic.Bool
	stopCh        chan struct{}

	done chan struct{}
	err  error
}

// Option configures a Line.
type Option func(*options)

type options struct {
	limit int64
	log   *logger.Logger
}

// WithLimit stops the first stage after it has produced n units. Zero
// means no limit.
func WithLimit(n int64) Option {
	return func(o *options) { o.limit = n }
}

// WithLogger sets the logger used for worker lifecycle messages.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// NewLine creates a line that pulls units from source and passes each one
// through stages in order. At least one stage is required.
func NewLine[T any](name string, source Source[T], stages []Stage[T], opts ...Option) (*Line[T], error) {
	if source == nil {
		return nil, errors.Validation("pipeline source is required")
	}
	if len(stages) == 0 {
		return nil, errors.Validation("pipeline needs at least one stage")
	}
	for i, st := range stages {
		if st.Work == nil {
			return nil, errors.Validation(fmt.Sprintf("stage %d (%s) has no work function", i, st.Name))
		}
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.limit < 0 {
		return nil, errors.Validation("pipeline limit must not be negative")
	}
	if o.log == nil {
		o.log = logger.Get("pipeline")
	}

	slots := make([]*handoff.Slot[T], len(stages)-1)
	for i := range slots {
		slots[i] = handoff.New[T]()
	}

	return &Line[T]{
		name:   name,
		source: source,
		stages: stages,
		slots:  slots,
		limit:  o.limit,
		log:    o.log,
		counts: make([]int64, len(stages)),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Name returns the line's label.
func (l *Line[T]) Name() string { return l.name }

// Stages returns the stage names in order.
func (l *Line[T]) Stages() []string {
	names := make([]string, len(l.stages))
	for i, st := range l.stages {
		names[i] = st.Name
	}
	return names
}

// Start launches one goroutine per stage. Cancelling ctx aborts the line:
// every parked hand-off is released and in-flight units are abandoned.
// Use Stop for an orderly drain.
func (l *Line[T]) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errors.AlreadyStarted(l.name)
	}
	l.started = true
	if !l.stopRequested {
		l.running.Store(true)
	}
	l.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for i := range l.stages {
		g.Go(func() error {
			return l.runStage(gctx, i)
		})
	}

	go func() {
		l.err = g.Wait()
		l.running.Store(false)
		close(l.done)
	}()
	return nil
}

// Stop asks the first stage to stop creating units. It never blocks and
// may be called any number of times. Units already created are still
// carried through every stage.
func (l *Line[T]) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopRequested {
		return
	}
	l.stopRequested = true
	l.running.Store(false)
	close(l.stopCh)
}

// Stopping returns a channel closed once Stop has been called.
func (l *Line[T]) Stopping() <-chan struct{} { return l.stopCh }

// Running reports whether the line accepts new units.
func (l *Line[T]) Running() bool { return l.running.Load() }

// Done returns a channel closed once every stage goroutine has exited.
func (l *Line[T]) Done() <-chan struct{} { return l.done }

// Err returns the reason the line ended: nil after an orderly drain, a
// CANCELED error after an abort, or the first stage failure. It is only
// meaningful once Done is closed.
func (l *Line[T]) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until every stage has exited and returns Err. If ctx ends
// first Wait returns STOP_CANCELED; the line keeps shutting down on its own
// and Wait may be called again.
func (l *Line[T]) Wait(ctx context.Context) error {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return errors.NotStarted(l.name)
	}

	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return errors.StopCanceled(l.name, ctx.Err())
	}
}

// Count returns how many units stage i has finished. Read it only after
// Done is closed or Wait has returned nil; before that the stage goroutine
// may still be writing it.
func (l *Line[T]) Count(i int) int64 {
	return l.counts[i]
}

// Created returns the number of units produced by the first stage.
func (l *Line[T]) Created() int64 { return l.Count(0) }

// Completed returns the number of units finished by the last stage.
func (l *Line[T]) Completed() int64 { return l.Count(len(l.counts) - 1) }

// admit decides whether the first stage may create another unit.
func (l *Line[T]) admit() bool {
	if !l.running.Load() {
		return false
	}
	if l.limit > 0 && l.counts[0] >= l.limit {
		l.Stop()
		return false
	}
	return true
}

func (l *Line[T]) runStage(ctx context.Context, i int) error {
	st := l.stages[i]
	log := l.log.WithFields(logger.Fields(logger.FieldWorker, st.Name))

	var in, out *handoff.Slot[T]
	if i > 0 {
		in = l.slots[i-1]
	}
	if i < len(l.slots) {
		out = l.slots[i]
		defer out.Close()
	}

	log.Info("Processing")
	defer func() {
		log.Info("Done", logger.Fields("units", l.counts[i]))
	}()

	for {
		var v T
		var err error

		if in == nil {
			if err := ctx.Err(); err != nil {
				return errors.Canceled(st.Name, err)
			}
			if !l.admit() {
				return nil
			}
			if v, err = l.source(ctx); err != nil {
				return fmt.Errorf("%s: source: %w", st.Name, err)
			}
		} else {
			v, err = in.Get(ctx)
			if errors.HasCode(err, errors.ErrCodeHandoffClosed) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", st.Name, err)
			}
		}

		if v, err = st.Work(ctx, v); err != nil {
			return fmt.Errorf("%s: %w", st.Name, err)
		}
		l.counts[i]++
		if st.OnDone != nil {
			st.OnDone(ctx, v)
		}

		if out != nil {
			if err := out.Put(ctx, v); err != nil {
				return fmt.Errorf("%s: %w", st.Name, err)
			}
		}
	}
}
