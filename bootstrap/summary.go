package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/juiceplant/component"
	"github.com/kbukum/juiceplant/logger"
)

// Summary describes the application once startup has finished.
type Summary struct {
	ServiceName     string
	Version         string
	StartupDuration time.Duration
	Components      []component.Description
	Health          []component.Health
}

// Collect gathers descriptions and health from the registry.
func (s *Summary) Collect(ctx context.Context, r *component.Registry) {
	s.Components = r.Describe()
	s.Health = r.HealthAll(ctx)
}

// String renders the summary as a short block of text.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s started in %s\n", s.ServiceName, s.Version, s.StartupDuration.Round(time.Millisecond))
	for _, d := range s.Components {
		line := fmt.Sprintf("  %-10s %-12s %s", d.Type, d.Name, d.Details)
		fmt.Fprintln(&b, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Log writes the summary at info level.
func (s *Summary) Log(l *logger.Logger) {
	healthy := 0
	for _, h := range s.Health {
		if h.Status == component.StatusHealthy {
			healthy++
		}
	}
	l.Info("Startup summary", logger.Fields(
		"service", s.ServiceName,
		"version", s.Version,
		"components", len(s.Health),
		"healthy", healthy,
		logger.FieldDuration, s.StartupDuration.Milliseconds(),
	))
	for _, d := range s.Components {
		l.Debug("Component", logger.Fields(
			logger.FieldComponent, d.Name,
			"type", d.Type,
			"details", d.Details,
		))
	}
}
