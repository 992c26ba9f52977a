package webhooks

import svc "github.com/CardChase151/clients-sub001/internal/http/services/webhook"

type Controllers struct {
	Webhooks *WebhooksController
}

func NewControllers(s svc.Service) *Controllers {
	return &Controllers{
		Webhooks: NewWebhooksController(s),
	}
}
