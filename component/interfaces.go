package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
	// StatusStopped marks a component that finished cleanly.
	StatusStopped HealthStatus = "stopped"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the application.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start launches the component. It must not block for the component's
	// lifetime.
	Start(ctx context.Context) error

	// Stop shuts the component down and waits for it, honouring ctx.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for the startup banner.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "plant", "server".
	Type string
	// Details is a one-liner shown in the startup summary.
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by components to self-report in
// the startup summary.
type Describable interface {
	Describe() Description
}
