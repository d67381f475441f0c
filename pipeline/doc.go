// Package pipeline runs a fixed chain of stage workers joined by
// single-slot handoffs.
//
// A Line is built from a Source and a list of Stage descriptors. Each stage
// runs in its own goroutine and owns a unit exclusively between receiving it
// and handing it on, so units need no locking.
//
// # Drain policy
//
// Stop is a request: the first stage creates nothing more, finishes the unit
// it holds, completes its hand-off and closes its output. Each later stage
// drains its input until it is closed and empty, then closes its own output.
// An orderly stop therefore loses no unit.
//
// Cancelling the context passed to Start is an abort: parked hand-offs are
// released and units in flight are abandoned.
//
// # Usage
//
//	line, _ := pipeline.NewLine("Plant[0]", newOrange, []pipeline.Stage[*orange.Orange]{
//	    {Name: "Worker[0]", Work: fetchAndPeel},
//	    {Name: "Worker[1]", Work: squeezeAndBottle},
//	})
//	_ = line.Start(ctx)
//	line.Stop()
//	err := line.Wait(ctx)
//	provided, processed := line.Created(), line.Completed()
package pipeline
