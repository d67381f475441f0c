package handoff

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/juiceplant/errors"
)

// Slot holds zero or one value in transit between two workers.
type Slot[T any] struct {
	ch        chan T
	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates an empty slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Put stores v, blocking while another value is resident. It returns only
// once v is stored, or with a CANCELED error if ctx ends first, in which case
// v was not stored. Put after Close returns HANDOFF_CLOSED.
//
// Put must only be called by the slot's single producer.
func (s *Slot[T]) Put(ctx context.Context, v T) error {
	if s.closed.Load() {
		return errors.HandoffClosed()
	}
	// Prefer cancellation when both cases are ready.
	if err := ctx.Err(); err != nil {
		return errors.Canceled("handoff put", err)
	}
	select {
	case s.ch <- v:
		return nil
	case <-ctx.Done():
		return errors.Canceled("handoff put", ctx.Err())
	}
}

// Get removes and returns the resident value, blocking while the slot is
// empty. Once the slot is closed and drained it returns HANDOFF_CLOSED. If
// ctx ends first it returns a CANCELED error and leaves the slot untouched.
func (s *Slot[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Canceled("handoff get", err)
	}
	select {
	case v, ok := <-s.ch:
		if !ok {
			return zero, errors.HandoffClosed()
		}
		return v, nil
	case <-ctx.Done():
		return zero, errors.Canceled("handoff get", ctx.Err())
	}
}

// Close marks the end of production. A resident value stays available to
// Get. Close is idempotent and must only be called by the producer.
func (s *Slot[T]) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.ch)
	})
}

// Closed reports whether the producer has closed the slot.
func (s *Slot[T]) Closed() bool { return s.closed.Load() }

// Len returns the number of resident values, 0 or 1.
func (s *Slot[T]) Len() int { return len(s.ch) }

// Cap returns the slot capacity, always 1.
func (s *Slot[T]) Cap() int { return cap(s.ch) }
