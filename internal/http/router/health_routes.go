package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/CardChase151/clients-sub001/internal/http/controllers/health"
	mw "github.com/CardChase151/clients-sub001/internal/http/middlewares"
)

// registerHealthRoutes mounts /healthz without request logging; probes hit it
// every few seconds.
func registerHealthRoutes(r chi.Router, c *ctrl.Controllers) {
	r.Handle("/healthz", mw.ChainFunc(c.Health.Healthz,
		mw.WithRequestID(),
		mw.WithNoStore(),
		mw.WithRecover(),
	))
}
