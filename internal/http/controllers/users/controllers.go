package users

import svc "github.com/CardChase151/clients-sub001/internal/http/services/users"

type Controllers struct {
	Users *UsersController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Users: NewUsersController(s.Provisioner, s.Deprovisioner),
	}
}
