// Package health reports which backends are configured and reachable.
package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/health"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Probe checks one backend. A nil Check with Configured true reports "ok"
// without a round trip.
type Probe struct {
	Name       string
	Configured bool
	Check      func(ctx context.Context) error

	// Describe, when set, runs after a passing Check and fills the message.
	Describe func(ctx context.Context) (string, error)
}

type Deps struct {
	Version string
	Probes  []Probe
	Timeout time.Duration
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

// Check never fails: unconfigured backends are "disabled", unreachable ones
// "error", and any error degrades the overall status.
func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Status:     StatusReady,
		Version:    s.deps.Version,
		Components: make(map[string]dto.ComponentStatus, len(s.deps.Probes)),
		Timestamp:  time.Now().UTC(),
	}

	for _, p := range s.deps.Probes {
		switch {
		case !p.Configured:
			resp.Components[p.Name] = dto.ComponentStatus{Status: "disabled", Message: "not configured"}
		case p.Check == nil:
			resp.Components[p.Name] = dto.ComponentStatus{Status: "ok"}
		default:
			cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
			msg, err := run(cctx, p)
			cancel()
			if err != nil {
				resp.Components[p.Name] = dto.ComponentStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
				resp.Status = StatusDegraded
				log.Warn("health probe failed", logger.Component(p.Name), logger.Err(err))
				continue
			}
			resp.Components[p.Name] = dto.ComponentStatus{Status: "ok", Message: msg}
		}
	}
	return resp
}

func run(ctx context.Context, p Probe) (string, error) {
	if err := p.Check(ctx); err != nil {
		return "", err
	}
	if p.Describe == nil {
		return "", nil
	}
	return p.Describe(ctx)
}
