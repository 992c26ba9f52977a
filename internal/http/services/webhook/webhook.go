// Package webhook projects email delivery events onto the users table.
//
// Handle never returns an error: every path, including malformed payloads
// and store failures, ends in a Result that the controller acknowledges.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CardChase151/clients-sub001/internal/cache"
	dto "github.com/CardChase151/clients-sub001/internal/http/dto/webhook"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Event types with a status projection.
const (
	EventSent      = "email.sent"
	EventDelivered = "email.delivered"
	EventOpened    = "email.opened"
	EventClicked   = "email.clicked"
)

// Result values, also used as the metric "result" label.
const (
	ResultUpdated        = "updated"
	ResultIgnored        = "ignored"
	ResultInvalidPayload = "invalid_payload"
	ResultNoRecipient    = "no_recipient"
	ResultUserNotFound   = "user_not_found"
	ResultLookupFailed   = "lookup_failed"
	ResultUpdateFailed   = "update_failed"
	ResultDuplicate      = "duplicate"
	ResultNotConfigured  = "not_configured"
)

const dedupePrefix = "resend-webhook"

type Result struct {
	Outcome string
	Type    string
	UserID  string
}

type Service interface {
	// Configured reports whether the store is available.
	Configured() bool
	// Handle processes one delivery. deliveryID may be empty.
	Handle(ctx context.Context, deliveryID string, body []byte) Result
}

type Options struct {
	// Dedupe is optional; without it every delivery is processed.
	Dedupe    cache.Client
	DedupeTTL time.Duration
	Now       func() time.Time
}

type service struct {
	users store.Users
	opts  Options
}

func NewService(users store.Users, opts Options) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DedupeTTL <= 0 {
		opts.DedupeTTL = 24 * time.Hour
	}
	return &service{users: users, opts: opts}
}

func (s *service) Configured() bool { return s.users != nil }

// Project maps an event type to a status update. ok is false for types
// without a projection.
func Project(eventType string, now time.Time) (u store.StatusUpdate, ok bool) {
	switch eventType {
	case EventSent:
		u.Status = store.EmailSent
	case EventDelivered:
		u.Status = store.EmailDelivered
	case EventOpened:
		u.Status = store.EmailOpened
		t := now.UTC()
		u.OpenedAt = &t
	case EventClicked:
		// A click implies an open.
		u.Status = store.EmailClicked
		t := now.UTC()
		u.OpenedAt = &t
	default:
		return store.StatusUpdate{}, false
	}
	return u, true
}

func (s *service) Handle(ctx context.Context, deliveryID string, body []byte) (res Result) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("webhook"),
		logger.Op("Handle"),
	)
	if deliveryID != "" {
		log = log.With(logger.String("delivery_id", deliveryID))
	}
	defer func() { metrics.RecordWebhook(metricType(res.Type), res.Outcome) }()

	if s.users == nil {
		log.Error("webhook received without a store")
		return Result{Outcome: ResultNotConfigured}
	}

	var ev dto.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Warn("unparsable webhook payload", logger.Err(err))
		return Result{Outcome: ResultInvalidPayload}
	}
	res.Type = ev.Type
	log = log.With(logger.EventType(ev.Type), logger.EmailID(ev.Data.EmailID))

	update, ok := Project(ev.Type, s.opts.Now())
	if !ok {
		log.Debug("event type ignored")
		res.Outcome = ResultIgnored
		return res
	}

	to := strings.TrimSpace(ev.Data.To.First())
	if to == "" {
		log.Info("event without recipient")
		res.Outcome = ResultNoRecipient
		return res
	}

	if !s.claim(ctx, log, deliveryID) {
		log.Info("duplicate delivery ignored")
		res.Outcome = ResultDuplicate
		return res
	}

	profile, err := s.users.FindByEmail(ctx, to)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info("no user for recipient", logger.Email(to))
		res.Outcome = ResultUserNotFound
		return res
	case err != nil:
		log.Error("user lookup failed", logger.Email(to), logger.Err(err))
		s.release(ctx, log, deliveryID)
		res.Outcome = ResultLookupFailed
		return res
	}
	res.UserID = profile.ID

	if err := s.users.UpdateEmailStatus(ctx, profile.ID, update); err != nil {
		log.Error("email status update failed", logger.UserID(profile.ID), logger.Err(err))
		s.release(ctx, log, deliveryID)
		res.Outcome = ResultUpdateFailed
		return res
	}

	log.Info("email status updated", logger.UserID(profile.ID), logger.String("status", string(update.Status)))
	res.Outcome = ResultUpdated
	return res
}

// claim marks deliveryID as seen and reports whether this call did so.
// Cache errors let the delivery through.
func (s *service) claim(ctx context.Context, log *zap.Logger, deliveryID string) bool {
	if deliveryID == "" || s.opts.Dedupe == nil {
		return true
	}
	fresh, err := s.opts.Dedupe.SetIfAbsent(ctx, dedupePrefix+":"+deliveryID, "1", s.opts.DedupeTTL)
	if err != nil {
		log.Warn("dedupe cache unavailable", logger.Err(err))
		return true
	}
	return fresh
}

// release forgets a claimed delivery whose side effect failed, so a redelivery
// can apply it.
func (s *service) release(ctx context.Context, log *zap.Logger, deliveryID string) {
	if deliveryID == "" || s.opts.Dedupe == nil {
		return
	}
	if err := s.opts.Dedupe.Delete(ctx, dedupePrefix+":"+deliveryID); err != nil {
		log.Warn("dedupe release failed", logger.Err(err))
	}
}

// metricType bounds label cardinality to the known event types.
func metricType(t string) string {
	switch t {
	case EventSent, EventDelivered, EventOpened, EventClicked:
		return t
	case "":
		return "unknown"
	default:
		return "other"
	}
}
