package handler

import (
	"net/http"

	"github.com/CardChase151/clients-sub001/internal/app"
	"github.com/CardChase151/clients-sub001/internal/http/router"
)

var serve = app.Serverless(router.EndpointResendWebhook)

// Handler serves /api/resend-webhook.
func Handler(w http.ResponseWriter, r *http.Request) {
	serve(w, r)
}
