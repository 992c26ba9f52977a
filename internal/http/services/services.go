// Package services builds every endpoint service from one set of backends.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	router.New(ctrls, ...)
package services

import (
	"time"

	"github.com/CardChase151/clients-sub001/internal/cache"
	"github.com/CardChase151/clients-sub001/internal/http/services/emails"
	"github.com/CardChase151/clients-sub001/internal/http/services/health"
	"github.com/CardChase151/clients-sub001/internal/http/services/users"
	"github.com/CardChase151/clients-sub001/internal/http/services/webhook"
	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Deps holds the backends. Any of them may be nil; the services that need
// a missing one answer with a configuration error.
type Deps struct {
	Identity identity.Service
	Store    store.Store
	Sender   mail.Sender
	Lister   mail.Lister
	Dedupe   cache.Client

	EmailFrom   string
	AdminNotify string
	DedupeTTL   time.Duration

	Health health.Deps
}

type Services struct {
	Users   users.Services
	Emails  emails.Services
	Webhook webhook.Service
	Health  health.HealthService
}

func New(d Deps) Services {
	// Keep nil interfaces nil rather than wrapping a nil Store.
	var (
		usersTable store.Users
		history    store.History
	)
	if d.Store != nil {
		usersTable, history = d.Store, d.Store
	}

	return Services{
		Users: users.NewServices(users.Deps{
			Identity: d.Identity,
			Users:    usersTable,
		}),
		Emails: emails.NewServices(emails.Deps{
			Sender:      d.Sender,
			Lister:      d.Lister,
			History:     history,
			From:        d.EmailFrom,
			AdminNotify: d.AdminNotify,
		}),
		Webhook: webhook.NewService(usersTable, webhook.Options{
			Dedupe:    d.Dedupe,
			DedupeTTL: d.DedupeTTL,
		}),
		Health: health.NewHealthService(d.Health),
	}
}
