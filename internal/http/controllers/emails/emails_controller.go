// Package emails contains the email status and sender controllers.
package emails

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/emails"
	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	"github.com/CardChase151/clients-sub001/internal/http/helpers"
	svc "github.com/CardChase151/clients-sub001/internal/http/services/emails"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

type EmailsController struct {
	status    svc.StatusReporter
	milestone svc.MilestoneSender
	profile   svc.ProfileNotifier
}

func NewEmailsController(s svc.Services) *EmailsController {
	return &EmailsController{status: s.Status, milestone: s.Milestone, profile: s.Profile}
}

// Status handles GET /api/get-email-status.
func (c *EmailsController) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmailsController.Status"))

	if r.Method != http.MethodGet {
		httperrors.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	emails, err := c.status.Recent(ctx)
	if err != nil {
		if errors.Is(err, mail.ErrListUnsupported) {
			log.Error("email status requested on a transport without a send log")
			httperrors.WriteError(w, httperrors.ErrServerConfig.WithMessage("Email status requires a Resend API key"))
			return
		}
		writeSendError(w, log, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.EmailStatusResponse{Emails: emails})
}

// Milestone handles POST /api/send-milestone-email.
func (c *EmailsController) Milestone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmailsController.Milestone"))

	if r.Method != http.MethodPost {
		httperrors.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req dto.MilestoneRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.milestone.Send(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMilestoneMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithMessage("Missing required fields: to, subject, message"))
		case errors.Is(err, svc.ErrInvalidAttachment):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithMessage("pdfBase64 must be valid base64"))
		default:
			writeSendError(w, log, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SendResponse{Success: true, Data: dto.SendData{ID: res.ID}})
}

// ProfileNotification handles POST /api/send-profile-notification.
func (c *EmailsController) ProfileNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmailsController.ProfileNotification"))

	if r.Method != http.MethodPost {
		httperrors.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req dto.ProfileNotificationRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.profile.Notify(ctx, req)
	if err != nil {
		if errors.Is(err, svc.ErrMissingEmail) {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithMessage("Email is required"))
			return
		}
		writeSendError(w, log, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SendResponse{Success: true, Data: dto.SendData{ID: res.ID}})
}

// writeSendError maps configuration and provider failures to 500.
func writeSendError(w http.ResponseWriter, log *zap.Logger, err error) {
	if errors.Is(err, svc.ErrNotConfigured) {
		log.Error("email endpoint called without email configuration")
		httperrors.WriteError(w, httperrors.ErrServerConfig)
		return
	}
	log.Error("email operation failed", logger.Err(err))
	httperrors.WriteError(w, httperrors.ErrEmailFailed.WithMessage(mail.ErrorMessage(err)).WithCause(err))
}
