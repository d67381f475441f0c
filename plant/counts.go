package plant

import (
	"fmt"

	"github.com/kbukum/juiceplant/orange"
)

// OrangesPerBottle is how many processed oranges fill one bottle.
const OrangesPerBottle = 3

// HandoffState is the state an orange is in when the producer hands it to
// the consumer.
const HandoffState = orange.Peeled

// Counts is a plant's final tally.
type Counts struct {
	Plant     string `json:"plant,omitempty"`
	Provided  int64  `json:"provided"`
	Processed int64  `json:"processed"`
	Bottles   int64  `json:"bottles"`
	Waste     int64  `json:"waste"`
}

// NewCounts derives bottles and waste from the raw counters.
func NewCounts(label string, provided, processed int64) Counts {
	return Counts{
		Plant:     label,
		Provided:  provided,
		Processed: processed,
		Bottles:   BottlesFor(processed),
		Waste:     WasteFor(processed),
	}
}

// BottlesFor returns the number of full bottles made from processed oranges.
func BottlesFor(processed int64) int64 { return processed / OrangesPerBottle }

// WasteFor returns the oranges left over after the last full bottle.
func WasteFor(processed int64) int64 { return processed % OrangesPerBottle }

// Add returns the field-wise sum of c and o. Bottles and waste are summed
// per plant, not recomputed from the summed processed count.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Plant:     c.Plant,
		Provided:  c.Provided + o.Provided,
		Processed: c.Processed + o.Processed,
		Bottles:   c.Bottles + o.Bottles,
		Waste:     c.Waste + o.Waste,
	}
}

// InFlight returns how many oranges were provided but never bottled.
func (c Counts) InFlight() int64 { return c.Provided - c.Processed }

func (c Counts) String() string {
	return fmt.Sprintf("%s provided/processed = %d/%d, bottles %d, waste %d",
		c.Plant, c.Provided, c.Processed, c.Bottles, c.Waste)
}
