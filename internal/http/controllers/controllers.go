// Package controllers groups the HTTP handlers of every endpoint.
package controllers

import (
	"github.com/CardChase151/clients-sub001/internal/http/controllers/emails"
	"github.com/CardChase151/clients-sub001/internal/http/controllers/health"
	"github.com/CardChase151/clients-sub001/internal/http/controllers/users"
	"github.com/CardChase151/clients-sub001/internal/http/controllers/webhooks"
	"github.com/CardChase151/clients-sub001/internal/http/services"
)

type Controllers struct {
	Users    *users.Controllers
	Emails   *emails.Controllers
	Webhooks *webhooks.Controllers
	Health   *health.Controllers
}

func New(s services.Services) *Controllers {
	return &Controllers{
		Users:    users.NewControllers(s.Users),
		Emails:   emails.NewControllers(s.Emails),
		Webhooks: webhooks.NewControllers(s.Webhook),
		Health:   health.NewControllers(s.Health),
	}
}
