package handler

import (
	"net/http"

	"github.com/CardChase151/clients-sub001/internal/app"
	"github.com/CardChase151/clients-sub001/internal/http/router"
)

var serve = app.Serverless(router.EndpointCreateUser)

// Handler serves /api/create-user.
func Handler(w http.ResponseWriter, r *http.Request) {
	serve(w, r)
}
