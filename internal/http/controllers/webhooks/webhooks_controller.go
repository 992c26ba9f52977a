// Package webhooks contains the email provider webhook receiver.
package webhooks

import (
	"io"
	"net/http"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/webhook"
	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	"github.com/CardChase151/clients-sub001/internal/http/helpers"
	svc "github.com/CardChase151/clients-sub001/internal/http/services/webhook"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// HeaderDeliveryID identifies a delivery across provider retries.
const HeaderDeliveryID = "svix-id"

type WebhooksController struct {
	service svc.Service
}

func NewWebhooksController(s svc.Service) *WebhooksController {
	return &WebhooksController{service: s}
}

// Resend handles POST /api/resend-webhook. Once the method and configuration
// checks pass, every delivery is acknowledged with 200 so the provider does
// not retry.
func (c *WebhooksController) Resend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("WebhooksController.Resend"))

	if r.Method != http.MethodPost {
		httperrors.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}
	if !c.service.Configured() {
		log.Error("webhook received without a store")
		httperrors.WriteError(w, httperrors.ErrServerConfig)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, helpers.MaxBodyBytes))
	if err != nil {
		log.Warn("webhook body read failed", logger.Err(err))
		body = nil
	}

	res := c.service.Handle(ctx, r.Header.Get(HeaderDeliveryID), body)
	log.Debug("webhook handled", logger.Outcome(res.Outcome), logger.EventType(res.Type))

	helpers.WriteJSON(w, http.StatusOK, dto.Ack{Received: true})
}
