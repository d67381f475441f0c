package farm

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/juiceplant/plant"
)

// Report is the outcome of one farm run.
type Report struct {
	RunID   string         `json:"run_id"`
	Elapsed time.Duration  `json:"elapsed"`
	Plants  []plant.Counts `json:"plants"`
	Total   plant.Counts   `json:"total"`
}

func newReport(runID string, elapsed time.Duration, plants []plant.Counts) *Report {
	total := plant.Counts{Plant: "total"}
	for _, c := range plants {
		total = total.Add(c)
	}
	return &Report{
		RunID:   runID,
		Elapsed: elapsed,
		Plants:  plants,
		Total:   total,
	}
}

// String renders the summary lines.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total provided/processed = %d/%d\n", r.Total.Provided, r.Total.Processed)
	fmt.Fprintf(&b, "Created %d, wasted %d oranges", r.Total.Bottles, r.Total.Waste)
	return b.String()
}
