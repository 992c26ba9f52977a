// Package health contains the liveness/readiness controller.
package health

import (
	"net/http"

	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	"github.com/CardChase151/clients-sub001/internal/http/helpers"
	svc "github.com/CardChase151/clients-sub001/internal/http/services/health"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(s svc.HealthService) *HealthController {
	return &HealthController{service: s}
}

// Healthz answers 200 when every configured backend is reachable and 503
// otherwise. The body lists each component either way.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httperrors.WriteMethodNotAllowed(w, "GET, HEAD")
		return
	}

	resp := c.service.Check(r.Context())
	status := http.StatusOK
	if resp.Status != svc.StatusReady {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
