package orange

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/kbukum/juiceplant/errors"
)

// Orange is a single unit of work.
type Orange struct {
	id  uuid.UUID
	fsm *fsm.FSM
}

// New creates an orange in the initial state.
func New() *Orange {
	return &Orange{
		id:  uuid.New(),
		fsm: fsm.NewFSM(string(Initial()), transitions, fsm.Callbacks{}),
	}
}

// ID returns the orange's unique identifier.
func (o *Orange) ID() uuid.UUID { return o.id }

// State returns the current state.
func (o *Orange) State() State { return State(o.fsm.Current()) }

// IsTerminal reports whether the orange has been bottled.
func (o *Orange) IsTerminal() bool { return o.State() == Terminal() }

// IsAtLeast reports whether the orange has reached target or a later state.
func (o *Orange) IsAtLeast(target State) bool {
	ti := target.Index()
	return ti >= 0 && o.State().Index() >= ti
}

// TryAdvance moves the orange one step forward. It returns an
// INVALID_TRANSITION error, leaving the state untouched, if the orange is
// already terminal.
func (o *Orange) TryAdvance() error {
	current := o.State()
	event, ok := stepEvents[current]
	if !ok {
		return errors.InvalidTransition(o.id.String(), current.String())
	}
	if err := o.fsm.Event(context.Background(), event); err != nil {
		return errors.InvalidTransition(o.id.String(), current.String()).WithCause(err)
	}
	return nil
}

// Advance moves the orange one step forward. Advancing a terminal orange
// means the pipeline is broken, so it panics.
func (o *Orange) Advance() {
	if err := o.TryAdvance(); err != nil {
		panic(err)
	}
}

// AdvanceTo advances the orange until it reaches target and returns the
// number of steps taken. It never moves past target and never moves back:
// an orange already at or beyond target is left as is.
func (o *Orange) AdvanceTo(target State) int {
	if !target.Valid() {
		panic(errors.InvalidTransition(o.id.String(), o.State().String()).
			WithDetail("target", string(target)))
	}
	steps := 0
	for !o.IsAtLeast(target) {
		o.Advance()
		steps++
	}
	return steps
}

func (o *Orange) String() string {
	return fmt.Sprintf("orange %s (%s)", o.id, o.State())
}
