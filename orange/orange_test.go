package orange

import (
	"testing"

	"github.com/kbukum/juiceplant/errors"
)

func TestNew_StartsAtInitialState(t *testing.T) {
	o := New()
	if o.State() != Created {
		t.Errorf("expected %s, got %s", Created, o.State())
	}
	if o.IsTerminal() {
		t.Error("new orange must not be terminal")
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := New().ID().String()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestAdvance_ReachesTerminalInFixedSteps(t *testing.T) {
	o := New()
	visited := []State{o.State()}
	steps := 0
	for !o.IsTerminal() {
		o.Advance()
		steps++
		visited = append(visited, o.State())
	}

	if want := len(States()) - 1; steps != want {
		t.Errorf("expected %d steps, got %d", want, steps)
	}
	for i, st := range visited {
		if st != States()[i] {
			t.Errorf("step %d: expected %s, got %s", i, States()[i], st)
		}
	}
}

func TestAdvance_NeverRevisitsState(t *testing.T) {
	o := New()
	seen := map[State]bool{o.State(): true}
	prev := o.State().Index()
	for !o.IsTerminal() {
		o.Advance()
		cur := o.State()
		if seen[cur] {
			t.Fatalf("state %s revisited", cur)
		}
		if cur.Index() != prev+1 {
			t.Fatalf("expected index %d, got %d", prev+1, cur.Index())
		}
		seen[cur] = true
		prev = cur.Index()
	}
}

func TestAdvance_TerminalPanics(t *testing.T) {
	o := New()
	o.AdvanceTo(Bottled)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic advancing a bottled orange")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic value, got %T", r)
		}
		if !errors.HasCode(err, errors.ErrCodeInvalidTransition) {
			t.Errorf("expected INVALID_TRANSITION, got %v", err)
		}
		if o.State() != Bottled {
			t.Errorf("state corrupted: %s", o.State())
		}
	}()
	o.Advance()
}

func TestTryAdvance_TerminalReturnsError(t *testing.T) {
	o := New()
	o.AdvanceTo(Bottled)

	err := o.TryAdvance()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidTransition) {
		t.Errorf("expected INVALID_TRANSITION, got %v", err)
	}
	if o.State() != Bottled {
		t.Errorf("expected state to stay bottled, got %s", o.State())
	}
}

func TestIsAtLeast(t *testing.T) {
	o := New()
	o.AdvanceTo(Peeled)

	tests := []struct {
		target State
		want   bool
	}{
		{Created, true},
		{Fetched, true},
		{Peeled, true},
		{Squeezed, false},
		{Bottled, false},
		{State("juiced"), false},
	}
	for _, tc := range tests {
		t.Run(string(tc.target), func(t *testing.T) {
			if got := o.IsAtLeast(tc.target); got != tc.want {
				t.Errorf("IsAtLeast(%s) = %v, want %v", tc.target, got, tc.want)
			}
		})
	}
}

func TestAdvanceTo_StepCounts(t *testing.T) {
	o := New()
	if n := o.AdvanceTo(Peeled); n != 2 {
		t.Errorf("expected 2 steps to peeled, got %d", n)
	}
	if n := o.AdvanceTo(Fetched); n != 0 {
		t.Errorf("expected no movement backwards, got %d steps", n)
	}
	if o.State() != Peeled {
		t.Errorf("expected peeled, got %s", o.State())
	}
	if n := o.AdvanceTo(Bottled); n != 2 {
		t.Errorf("expected 2 steps to bottled, got %d", n)
	}
}

func TestAdvanceTo_UnknownTargetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown target")
		}
	}()
	New().AdvanceTo(State("juiced"))
}

func TestState_Order(t *testing.T) {
	if Initial() != Created {
		t.Errorf("expected initial created, got %s", Initial())
	}
	if Terminal() != Bottled {
		t.Errorf("expected terminal bottled, got %s", Terminal())
	}
	if next, ok := Peeled.Next(); !ok || next != Squeezed {
		t.Errorf("expected peeled -> squeezed, got %s %v", next, ok)
	}
	if _, ok := Bottled.Next(); ok {
		t.Error("terminal state has no next")
	}
	if State("x").Valid() {
		t.Error("unknown state must not be valid")
	}
	if got := StepsBetween(Created, Peeled); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := StepsBetween(Squeezed, Fetched); got != -1 {
		t.Errorf("expected -1 for backwards, got %d", got)
	}
}

func TestStates_ReturnsCopy(t *testing.T) {
	s := States()
	s[0] = Bottled
	if States()[0] != Created {
		t.Error("States must not expose internal order")
	}
}
