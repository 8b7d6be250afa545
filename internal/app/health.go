package app

import (
	"context"
	"sync"
	"time"
)

// ComponentStatus is the health state of one subsystem.
type ComponentStatus string

const (
	StatusOK       ComponentStatus = "ok"
	StatusDegraded ComponentStatus = "degraded"
	StatusDown     ComponentStatus = "down"
)

// HealthProbe reports the live state of one component.
type HealthProbe func(ctx context.Context) ComponentStatus

// HealthReport is a point-in-time snapshot of all registered components.
type HealthReport struct {
	Status     ComponentStatus            `json:"status"`
	Version    string                     `json:"version"`
	Components map[string]ComponentStatus `json:"components"`
	CheckedAt  time.Time                  `json:"checkedAt"`
}

// HealthRegistry aggregates component probes into one report. Probes run on
// demand; registration order does not matter.
type HealthRegistry struct {
	mu     sync.RWMutex
	probes map[string]HealthProbe
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{probes: make(map[string]HealthProbe)}
}

// Register adds or replaces a component probe.
func (h *HealthRegistry) Register(name string, probe HealthProbe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = probe
}

// Check runs every probe and aggregates. Overall status is the worst
// component status: any down component makes the report down, any degraded
// one makes it degraded.
func (h *HealthRegistry) Check(ctx context.Context) HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := HealthReport{
		Status:     StatusOK,
		Version:    BuildVersion(),
		Components: make(map[string]ComponentStatus, len(h.probes)),
		CheckedAt:  time.Now().UTC(),
	}
	for name, probe := range h.probes {
		status := probe(ctx)
		report.Components[name] = status
		switch status {
		case StatusDown:
			report.Status = StatusDown
		case StatusDegraded:
			if report.Status == StatusOK {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}
