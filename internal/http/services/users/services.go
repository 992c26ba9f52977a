package users

import (
	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Deps are nil when the matching backend is not configured.
type Deps struct {
	Identity identity.Service
	Users    store.Users
}

type Services struct {
	Provisioner   Provisioner
	Deprovisioner Deprovisioner
}

func NewServices(d Deps) Services {
	return Services{
		Provisioner:   NewProvisioner(d.Identity, d.Users),
		Deprovisioner: NewDeprovisioner(d.Identity, d.Users),
	}
}
