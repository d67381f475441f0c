package orange

import "github.com/looplab/fsm"

// State is a processing state of an orange.
type State string

const (
	Created  State = "created"
	Fetched  State = "fetched"
	Peeled   State = "peeled"
	Squeezed State = "squeezed"
	Bottled  State = "bottled"
)

// Events, one per forward step.
const (
	EventFetch   = "fetch"
	EventPeel    = "peel"
	EventSqueeze = "squeeze"
	EventBottle  = "bottle"
)

// order is the total order of states. Index 0 is initial, the last is terminal.
var order = []State{Created, Fetched, Peeled, Squeezed, Bottled}

// stepEvents maps each non-terminal state to the event leaving it.
var stepEvents = map[State]string{
	Created:  EventFetch,
	Fetched:  EventPeel,
	Peeled:   EventSqueeze,
	Squeezed: EventBottle,
}

// transitions is the fsm table. Every event has exactly one source so the
// machine can only ever move one step forward.
var transitions = fsm.Events{
	{Name: EventFetch, Src: []string{string(Created)}, Dst: string(Fetched)},
	{Name: EventPeel, Src: []string{string(Fetched)}, Dst: string(Peeled)},
	{Name: EventSqueeze, Src: []string{string(Peeled)}, Dst: string(Squeezed)},
	{Name: EventBottle, Src: []string{string(Squeezed)}, Dst: string(Bottled)},
}

// States returns all states in processing order.
func States() []State {
	out := make([]State, len(order))
	copy(out, order)
	return out
}

// Initial returns the state every new orange starts in.
func Initial() State { return order[0] }

// Terminal returns the final state.
func Terminal() State { return order[len(order)-1] }

// Index returns the position of s in the processing order, or -1.
func (s State) Index() int {
	for i, st := range order {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the state after s. ok is false for the terminal state and
// for unknown states.
func (s State) Next() (next State, ok bool) {
	i := s.Index()
	if i < 0 || i == len(order)-1 {
		return "", false
	}
	return order[i+1], true
}

// Valid reports whether s is a known state.
func (s State) Valid() bool { return s.Index() >= 0 }

// StepsBetween returns how many Advance calls take an orange from 'from' to 'to'.
// It returns -1 when 'to' precedes 'from' or either state is unknown.
func StepsBetween(from, to State) int {
	fi, ti := from.Index(), to.Index()
	if fi < 0 || ti < 0 || ti < fi {
		return -1
	}
	return ti - fi
}

func (s State) String() string { return string(s) }
