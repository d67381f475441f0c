package plant

import (
	"testing"

	"github.com/kbukum/juiceplant/orange"
)

func TestCounts_BottleIdentity(t *testing.T) {
	for processed := range int64(50) {
		c := NewCounts("p", processed, processed)
		if c.Bottles*OrangesPerBottle+c.Waste != processed {
			t.Fatalf("processed=%d: %d*%d+%d != %d", processed, c.Bottles, OrangesPerBottle, c.Waste, processed)
		}
		if c.Waste < 0 || c.Waste >= OrangesPerBottle {
			t.Fatalf("processed=%d: waste %d out of range", processed, c.Waste)
		}
	}
}

func TestCounts_Table(t *testing.T) {
	tests := []struct {
		processed      int64
		bottles, waste int64
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{10, 3, 1},
		{11, 3, 2},
	}
	for _, tt := range tests {
		if got := BottlesFor(tt.processed); got != tt.bottles {
			t.Errorf("BottlesFor(%d): expected %d, got %d", tt.processed, tt.bottles, got)
		}
		if got := WasteFor(tt.processed); got != tt.waste {
			t.Errorf("WasteFor(%d): expected %d, got %d", tt.processed, tt.waste, got)
		}
	}
}

func TestCounts_AddSumsPerPlant(t *testing.T) {
	a := NewCounts("Plant[0]", 5, 5) // 1 bottle, 2 waste
	b := NewCounts("Plant[1]", 4, 4) // 1 bottle, 1 waste
	total := a.Add(b)
	if total.Provided != 9 || total.Processed != 9 {
		t.Errorf("expected 9/9, got %d/%d", total.Provided, total.Processed)
	}
	if total.Bottles != 2 || total.Waste != 3 {
		t.Errorf("expected 2 bottles and 3 waste, got %d and %d", total.Bottles, total.Waste)
	}
	if total.InFlight() != 0 {
		t.Errorf("expected nothing in flight, got %d", total.InFlight())
	}
}

func TestHandoffStateSplitsWork(t *testing.T) {
	before := orange.StepsBetween(orange.Initial(), HandoffState)
	after := orange.StepsBetween(HandoffState, orange.Terminal())
	if before < 2 || after < 1 {
		t.Errorf("expected at least 2 steps before and 1 after hand-off, got %d and %d", before, after)
	}
}
