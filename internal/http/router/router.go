// Package router mounts every endpoint on a chi router and builds the
// standalone per-endpoint handlers used by the serverless entrypoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CardChase151/clients-sub001/internal/http/controllers"
	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	mw "github.com/CardChase151/clients-sub001/internal/http/middlewares"
)

// Endpoint names. Each is served at /api/<name> and used as the "endpoint"
// metric and log label.
const (
	EndpointCreateUser              = "create-user"
	EndpointDeleteUser              = "delete-user"
	EndpointGetEmailStatus          = "get-email-status"
	EndpointResendWebhook           = "resend-webhook"
	EndpointSendMilestoneEmail      = "send-milestone-email"
	EndpointSendProfileNotification = "send-profile-notification"
)

type Deps struct {
	Controllers *controllers.Controllers
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// New returns the router used by the long-running server.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})

	r.Route("/api", func(r chi.Router) {
		for _, name := range Endpoints() {
			h, _ := Endpoint(deps.Controllers, name)
			r.Handle("/"+name, h)
		}
	})

	registerHealthRoutes(r, deps.Controllers.Health)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	return r
}

// Endpoints lists every /api endpoint name in mount order.
func Endpoints() []string {
	return []string{
		EndpointCreateUser,
		EndpointDeleteUser,
		EndpointGetEmailStatus,
		EndpointResendWebhook,
		EndpointSendMilestoneEmail,
		EndpointSendProfileNotification,
	}
}

// Endpoint returns the fully wrapped handler for one endpoint. Method checks
// stay in the controllers so every method reaches them and gets the JSON 405.
func Endpoint(c *controllers.Controllers, name string) (http.Handler, bool) {
	var hf http.HandlerFunc
	switch name {
	case EndpointCreateUser:
		hf = c.Users.Users.CreateUser
	case EndpointDeleteUser:
		hf = c.Users.Users.DeleteUser
	case EndpointGetEmailStatus:
		hf = c.Emails.Emails.Status
	case EndpointResendWebhook:
		hf = c.Webhooks.Webhooks.Resend
	case EndpointSendMilestoneEmail:
		hf = c.Emails.Emails.Milestone
	case EndpointSendProfileNotification:
		hf = c.Emails.Emails.ProfileNotification
	default:
		return nil, false
	}
	return mw.ChainFunc(hf, mw.Default(name)...), true
}
