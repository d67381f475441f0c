// Package plant runs one juice plant: a producer worker that fetches and
// peels oranges and a consumer worker that squeezes and bottles them,
// joined by a single-slot hand-off.
//
//	p, _ := plant.New("Plant[0]")
//	_ = p.Start(ctx)
//	time.Sleep(5 * time.Second)
//	p.Stop()
//	if err := p.WaitToStop(ctx); err != nil { ... }
//	fmt.Println(p.Bottles(), p.Waste())
//
// Stop is a request. The producer finishes the orange in its hands, hands it
// over and exits; the consumer bottles everything handed over before it
// exits. After WaitToStop returns nil, ProvidedOranges equals
// ProcessedOranges and all counters are final.
package plant
