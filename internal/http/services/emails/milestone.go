package emails

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/emails"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/mail/templates"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// DefaultPDFFilename names an attachment sent without a filename.
const DefaultPDFFilename = "milestone.pdf"

var (
	ErrMilestoneMissingFields = errors.New("missing required fields: to, subject, message")
	ErrInvalidAttachment      = errors.New("pdfBase64 must be valid base64")
)

type MilestoneSender interface {
	Send(ctx context.Context, req dto.MilestoneRequest) (*mail.SendResult, error)
}

type milestoneSender struct {
	sender  mail.Sender
	history store.History // optional
	from    string
}

// NewMilestoneSender builds the sender. history may be nil, in which case
// no email_history row is written.
func NewMilestoneSender(sender mail.Sender, history store.History, from string) MilestoneSender {
	return &milestoneSender{sender: sender, history: history, from: from}
}

func (s *milestoneSender) Send(ctx context.Context, req dto.MilestoneRequest) (*mail.SendResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("emails.milestone"),
		logger.Op("Send"),
	)

	to := strings.TrimSpace(req.To)
	if to == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrMilestoneMissingFields
	}

	msg := mail.Message{From: s.from, To: []string{to}, Subject: req.Subject}
	if req.PDFBase64 != "" {
		content, err := DecodeAttachment(req.PDFBase64)
		if err != nil {
			return nil, ErrInvalidAttachment
		}
		name := strings.TrimSpace(req.PDFFilename)
		if name == "" {
			name = DefaultPDFFilename
		}
		msg.Attachments = []mail.Attachment{{Filename: name, Content: content}}
	}
	if s.sender == nil {
		return nil, ErrNotConfigured
	}

	html, err := templates.Milestone(templates.MilestoneVars{
		FirstName:     req.FirstName,
		Message:       req.Message,
		HasAttachment: len(msg.Attachments) > 0,
	})
	if err != nil {
		return nil, fmt.Errorf("render milestone: %w", err)
	}
	msg.HTML = html

	res, err := s.sender.Send(ctx, msg)
	if err != nil {
		log.Error("milestone send failed", logger.Err(err))
		return nil, fmt.Errorf("send milestone: %w", err)
	}
	log.Info("milestone sent", logger.EmailID(res.ID))

	s.recordHistory(ctx, log, req)
	return res, nil
}

func (s *milestoneSender) recordHistory(ctx context.Context, log *zap.Logger, req dto.MilestoneRequest) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || s.history == nil {
		return
	}
	entry := store.HistoryEntry{
		UserID:          userID,
		Message:         req.Message,
		Subject:         req.Subject,
		ChangesSnapshot: map[string]any{},
		Success:         true,
	}
	if sb := strings.TrimSpace(req.SentBy); sb != "" {
		entry.SentBy = &sb
	}
	if err := s.history.InsertHistory(ctx, entry); err != nil {
		log.Warn("email history insert failed", logger.UserID(userID), logger.Err(err))
	}
}

// DecodeAttachment accepts standard or unpadded base64, optionally behind a
// data URL prefix ("data:application/pdf;base64,"). Whitespace is ignored.
func DecodeAttachment(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, ErrInvalidAttachment
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
