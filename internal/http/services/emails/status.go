// Package emails implements the email status report and the two
// transactional senders.
package emails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// StatusListLimit is how many recent emails the status report asks for.
const StatusListLimit = 100

var ErrNotConfigured = errors.New("email service not configured")

type StatusReporter interface {
	Recent(ctx context.Context) ([]json.RawMessage, error)
}

type statusReporter struct {
	lister mail.Lister
	sender mail.Sender
}

// NewStatusReporter reads the send log from l. A sender without a lister
// (SMTP with no Resend key) yields mail.ErrListUnsupported.
func NewStatusReporter(l mail.Lister, s mail.Sender) StatusReporter {
	return &statusReporter{lister: l, sender: s}
}

func (s *statusReporter) Recent(ctx context.Context) ([]json.RawMessage, error) {
	switch {
	case s.lister != nil:
	case s.sender != nil:
		return nil, mail.ErrListUnsupported
	default:
		return nil, ErrNotConfigured
	}
	emails, err := s.lister.ListEmails(ctx, StatusListLimit)
	if err != nil {
		logger.From(ctx).Warn("list emails failed",
			logger.Layer("service"), logger.Component("emails.status"), logger.Err(err))
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}
