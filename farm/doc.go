// Package farm drives a set of plants for a fixed time and reports totals.
//
// Run starts every plant through a component registry, lets them work for
// the configured duration, asks all of them to stop, then joins them in
// reverse order and sums their counters.
package farm
