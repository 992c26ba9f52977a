package health

import svc "github.com/CardChase151/clients-sub001/internal/http/services/health"

type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.HealthService) *Controllers {
	return &Controllers{
		Health: NewHealthController(s),
	}
}
