// Package orange models one unit of work flowing through a juice plant.
//
// An Orange moves through a fixed, strictly ordered set of states:
//
//	created -> fetched -> peeled -> squeezed -> bottled
//
// Advance moves exactly one step forward. Advancing a bottled orange is a
// programming error and panics with an INVALID_TRANSITION error.
//
// An Orange has no locking of its own beyond what the underlying state
// machine does. It must be held by exactly one worker at a time; handing it
// to another worker through a handoff slot transfers ownership.
package orange
