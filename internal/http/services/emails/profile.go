package emails

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/emails"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/mail/templates"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

var ErrMissingEmail = errors.New("email is required")

// ProfileNotifier tells the admin inbox that a user completed their profile.
type ProfileNotifier interface {
	Notify(ctx context.Context, req dto.ProfileNotificationRequest) (*mail.SendResult, error)
}

type profileNotifier struct {
	sender  mail.Sender
	from    string
	adminTo string
}

func NewProfileNotifier(sender mail.Sender, from, adminTo string) ProfileNotifier {
	return &profileNotifier{sender: sender, from: from, adminTo: strings.TrimSpace(adminTo)}
}

func (s *profileNotifier) Notify(ctx context.Context, req dto.ProfileNotificationRequest) (*mail.SendResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("emails.profile"),
		logger.Op("Notify"),
	)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if s.sender == nil || s.adminTo == "" {
		return nil, ErrNotConfigured
	}

	vars := templates.ProfileVars{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Phone:     req.Phone,
		AppName:   req.AppName,
	}
	html, err := templates.ProfileNotification(vars)
	if err != nil {
		return nil, fmt.Errorf("render profile notification: %w", err)
	}

	res, err := s.sender.Send(ctx, mail.Message{
		From:    s.from,
		To:      []string{s.adminTo},
		Subject: templates.ProfileSubject(vars),
		HTML:    html,
	})
	if err != nil {
		log.Error("profile notification failed", logger.Email(email), logger.Err(err))
		return nil, fmt.Errorf("send profile notification: %w", err)
	}
	log.Info("profile notification sent", logger.Email(email), logger.EmailID(res.ID))
	return res, nil
}
