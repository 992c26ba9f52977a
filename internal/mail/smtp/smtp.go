// Package smtp delivers mail.Message values over SMTP with go-mail.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	gomail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// TLS modes accepted in Config.TLSMode.
const (
	TLSAuto     = "auto"
	TLSStartTLS = "starttls"
	TLSSSL      = "ssl"
	TLSNone     = "none"
)

type Config struct {
	Host    string
	Port    int
	User    string
	Pass    string
	TLSMode string
	Timeout time.Duration
	// Dev only.
	InsecureSkipVerify bool
}

// dialer is the part of *gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements mail.Sender. Send results carry the generated
// Message-ID, since SMTP has no provider id.
type Sender struct {
	cfg    Config
	dialer dialer
}

var _ mail.Sender = (*Sender)(nil)

func New(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = TLSAuto
	}
	return &Sender{cfg: cfg, dialer: newDialer(cfg)}
}

func newDialer(cfg Config) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.InsecureSkipVerify}
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	switch cfg.TLSMode {
	case TLSSSL:
		d.SSL = true
	case TLSNone:
		d.StartTLSPolicy = gomail.NoStartTLS
	case TLSStartTLS:
		d.StartTLSPolicy = gomail.MandatoryStartTLS
	default:
		// auto: STARTTLS when the server offers it
	}
	return d
}

// Send builds the MIME message and hands it to the server. The context is
// only checked before dialing; go-mail has no cancellation hook.
func (s *Sender) Send(ctx context.Context, m mail.Message) (_ *mail.SendResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream("email", "smtp_send", err, time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, id := s.build(m)
	log := logger.From(ctx).With(logger.Layer("client"), logger.Upstream("smtp"), logger.Op("send"))
	log.Debug("smtp send", logger.String("host", s.cfg.Host), logger.Int("port", s.cfg.Port),
		logger.String("tls_mode", s.cfg.TLSMode), logger.Int("recipients", len(m.To)))

	if err := s.dialer.DialAndSend(msg); err != nil {
		log.Warn("smtp send failed", logger.Err(err))
		return nil, fmt.Errorf("smtp send: %w", err)
	}
	return &mail.SendResult{ID: id}, nil
}

func (s *Sender) build(m mail.Message) (*gomail.Message, string) {
	id := uuid.NewString()
	domain := "localhost"
	if at := strings.LastIndex(m.From, "@"); at >= 0 {
		domain = strings.TrimRight(m.From[at+1:], ">")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetHeader("Message-ID", "<"+id+"@"+domain+">")
	msg.SetBody("text/html", m.HTML)

	for _, a := range m.Attachments {
		content := a.Content
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return msg, id
}
