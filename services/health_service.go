package services

import (
	"context"
	"sort"
	"time"

	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"go.uber.org/zap"
)

const defaultCheckTimeout = 3 * time.Second

// HealthService pings the long-lived collaborators for readiness probes.
type HealthService struct {
	checks    map[string]store.Pinger
	version   string
	startedAt time.Time
	timeout   time.Duration
	log       *zap.SugaredLogger
}

func NewHealthService(checks map[string]store.Pinger, version string) *HealthService {
	if checks == nil {
		checks = map[string]store.Pinger{}
	}
	return &HealthService{
		checks:    checks,
		version:   version,
		startedAt: time.Now(),
		timeout:   defaultCheckTimeout,
		log:       logger.GetLogger(),
	}
}

// CheckHealth is DOWN if any component fails its ping.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent, len(h.checks))
	overallStatus := types.HealthStatusUp

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		component := h.check(ctx, name, h.checks[name])
		components[name] = component
		if component.Status == types.HealthStatusDown {
			overallStatus = types.HealthStatusDown
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
	}
}

func (h *HealthService) check(ctx context.Context, name string, p store.Pinger) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		h.log.Errorw("Health check failed", "component", name, "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: name + " unreachable",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
