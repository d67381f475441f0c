package plant

import (
	"context"
	"fmt"

	"github.com/kbukum/juiceplant/component"
	"github.com/kbukum/juiceplant/errors"
)

// Health reports the plant's lifecycle state. Counters appear only once
// the plant has fully stopped.
func (p *Plant) Health(_ context.Context) component.Health {
	h := component.Health{Name: p.label}
	select {
	case <-p.finished:
		err := p.line.Err()
		switch {
		case err == nil:
			h.Status = component.StatusStopped
			h.Message = p.Snapshot().String()
		case errors.IsShutdown(err):
			h.Status = component.StatusDegraded
			h.Message = "aborted: " + err.Error()
		default:
			h.Status = component.StatusUnhealthy
			h.Message = err.Error()
		}
		return h
	default:
	}

	switch {
	case !p.started.Load():
		h.Status = component.StatusHealthy
		h.Message = "idle"
	case p.Running():
		h.Status = component.StatusHealthy
		h.Message = "running"
	default:
		h.Status = component.StatusHealthy
		h.Message = "draining"
	}
	return h
}

// Component adapts a Plant to the component lifecycle.
type Component struct {
	plant *Plant
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// AsComponent wraps p so a component.Registry can start and stop it.
func AsComponent(p *Plant) *Component {
	return &Component{plant: p}
}

// Plant returns the wrapped plant.
func (c *Component) Plant() *Plant { return c.plant }

// Name returns the plant's label.
func (c *Component) Name() string { return c.plant.label }

// Start starts the plant.
func (c *Component) Start(ctx context.Context) error { return c.plant.Start(ctx) }

// Stop requests a stop and waits for both workers, bounded by ctx.
func (c *Component) Stop(ctx context.Context) error {
	c.plant.Stop()
	return c.plant.WaitToStop(ctx)
}

// Health reports the plant's health.
func (c *Component) Health(ctx context.Context) component.Health { return c.plant.Health(ctx) }

// Describe reports the plant for the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Type:    "plant",
		Details: fmt.Sprintf("workers=%d per_bottle=%d", len(c.plant.Workers()), OrangesPerBottle),
	}
}
