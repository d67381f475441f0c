package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/juiceplant/plant"
)

// PlantLister returns the plants to report on.
type PlantLister func() []*plant.Plant

// PlantStatus is one entry of the /plants response.
type PlantStatus struct {
	Label   string        `json:"label"`
	Running bool          `json:"running"`
	Workers []string      `json:"workers"`
	Counts  *plant.Counts `json:"counts,omitempty"`
}

// Plants lists each plant's running flag. Counters are included only for
// plants that have fully stopped, since they are not final before that.
func Plants(list PlantLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plants []*plant.Plant
		if list != nil {
			plants = list()
		}

		out := make([]PlantStatus, 0, len(plants))
		for _, p := range plants {
			st := PlantStatus{
				Label:   p.Label(),
				Running: p.Running(),
				Workers: p.Workers(),
			}
			select {
			case <-p.Done():
				counts := p.Snapshot()
				st.Counts = &counts
			default:
			}
			out = append(out, st)
		}
		c.JSON(http.StatusOK, gin.H{"plants": out})
	}
}
