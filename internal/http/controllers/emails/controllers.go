package emails

import svc "github.com/CardChase151/clients-sub001/internal/http/services/emails"

type Controllers struct {
	Emails *EmailsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Emails: NewEmailsController(s),
	}
}
