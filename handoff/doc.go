// Package handoff provides Slot, a capacity-one blocking channel connecting
// exactly one producer to exactly one consumer.
//
// Put blocks while a value is resident; Get blocks while the slot is empty.
// Both accept a context so a parked worker can be released during shutdown.
// The producer closes the slot when it will put nothing more; the consumer
// keeps receiving until the slot is closed and drained.
//
//	s := handoff.New[*orange.Orange]()
//	go func() {
//	    defer s.Close()
//	    _ = s.Put(ctx, o)
//	}()
//	o, err := s.Get(ctx) // HANDOFF_CLOSED once closed and empty
package handoff
