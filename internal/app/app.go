// Package app builds the backends, services and HTTP handlers from one
// Config. The serverless entrypoints and the adminfn server share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/CardChase151/clients-sub001/internal/cache"
	"github.com/CardChase151/clients-sub001/internal/config"
	"github.com/CardChase151/clients-sub001/internal/http/controllers"
	"github.com/CardChase151/clients-sub001/internal/http/router"
	"github.com/CardChase151/clients-sub001/internal/http/services"
	"github.com/CardChase151/clients-sub001/internal/http/services/health"
	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/identity/gotrue"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/mail/resend"
	"github.com/CardChase151/clients-sub001/internal/mail/smtp"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
	"github.com/CardChase151/clients-sub001/internal/store"
	"github.com/CardChase151/clients-sub001/internal/store/pg"
	"github.com/CardChase151/clients-sub001/internal/store/rest"
	"github.com/CardChase151/clients-sub001/internal/util"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Container holds every backend. A nil field means the backend is not
// configured; the handlers that need it answer 500.
type Container struct {
	Config *config.Config

	Identity identity.Service
	Store    store.Store
	Sender   mail.Sender
	Lister   mail.Lister
	Dedupe   cache.Client

	Services    services.Services
	Controllers *controllers.Controllers

	closers []func() error
}

// New builds the container. Missing credentials only leave components nil.
// An unreachable Redis disables webhook dedupe; an unreachable Postgres is
// returned as an error.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.L().With(logger.Layer("app"), logger.Op("New"))

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}

	c := &Container{Config: cfg}

	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warn("configuration incomplete, dependent endpoints will answer 500",
			logger.Any("missing", missing))
	}
	if cfg.UsingRestrictedKey() {
		log.Warn("SUPABASE_SERVICE_ROLE_KEY not set, falling back to the anon key; admin calls will be rejected")
	} else if key := cfg.Supabase.ServiceRoleKey; key != "" && config.KeyRole(key) == config.RoleAnon {
		log.Warn("SUPABASE_SERVICE_ROLE_KEY carries the anon role")
	}

	if cfg.HasSupabase() {
		key := cfg.SupabaseKey()
		log.Info("supabase credentials",
			logger.String("key", util.MaskSecret(key)),
			logger.String("role", config.KeyRole(key)))
		c.Identity = gotrue.New(cfg.Supabase.URL, key, cfg.HTTPTimeout)
	}

	if err := c.buildStore(ctx, log); err != nil {
		return nil, err
	}
	c.buildMail()
	if err := c.buildDedupe(ctx, log); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Services = services.New(services.Deps{
		Identity:    c.Identity,
		Store:       c.Store,
		Sender:      c.Sender,
		Lister:      c.Lister,
		Dedupe:      c.Dedupe,
		EmailFrom:   cfg.Email.From,
		AdminNotify: cfg.Email.AdminNotify,
		DedupeTTL:   cfg.Webhook.DedupeTTL,
		Health:      health.Deps{Version: Version, Probes: c.probes()},
	})
	c.Controllers = controllers.New(c.Services)

	log.Info("container ready",
		logger.Bool("identity", c.Identity != nil),
		logger.String("store", storeDriver(c)),
		logger.Bool("email_send", c.Sender != nil),
		logger.Bool("email_list", c.Lister != nil),
		logger.Bool("dedupe", c.Dedupe != nil),
	)
	return c, nil
}

func (c *Container) buildStore(ctx context.Context, log *zap.Logger) error {
	cfg := c.Config
	switch cfg.Store.Driver {
	case config.StorePostgres:
		s, err := pg.New(ctx, cfg.Store.DatabaseURL, pg.Options{})
		if err != nil {
			return fmt.Errorf("app: postgres store: %w", err)
		}
		c.Store = s
		c.closers = append(c.closers, s.Close)
	default:
		if !cfg.HasSupabase() {
			log.Warn("store disabled: Supabase URL or key missing")
			return nil
		}
		c.Store = rest.New(cfg.Supabase.URL, cfg.SupabaseKey(), cfg.HTTPTimeout)
	}
	return nil
}

func (c *Container) buildMail() {
	cfg := c.Config
	var api *resend.Client
	if cfg.HasEmailAPI() {
		api = resend.New(cfg.Email.ResendBaseURL, cfg.Email.ResendAPIKey, cfg.HTTPTimeout)
		c.Lister = api
	}

	switch cfg.Email.Transport {
	case config.TransportSMTP:
		c.Sender = smtp.New(smtp.Config{
			Host:    cfg.Email.SMTP.Host,
			Port:    cfg.Email.SMTP.Port,
			User:    cfg.Email.SMTP.User,
			Pass:    cfg.Email.SMTP.Pass,
			TLSMode: cfg.Email.SMTP.TLS,
			Timeout: cfg.HTTPTimeout,
		})
	default:
		if api != nil {
			c.Sender = api
		}
	}
}

func (c *Container) buildDedupe(ctx context.Context, log *zap.Logger) error {
	cfg := c.Config
	d, err := cache.New(ctx, cache.Config{
		Driver:   cfg.Webhook.Dedupe,
		Addr:     cfg.Webhook.Redis.Addr,
		Password: cfg.Webhook.Redis.Password,
		DB:       cfg.Webhook.Redis.DB,
		Prefix:   "adminfn",
	})
	if err != nil && cfg.Webhook.Dedupe == config.DedupeRedis {
		log.Warn("dedupe disabled: redis unreachable, every webhook delivery will be processed",
			logger.String("addr", cfg.Webhook.Redis.Addr), logger.Err(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("app: dedupe cache: %w", err)
	}
	c.Dedupe = d
	c.closers = append(c.closers, d.Close)
	return nil
}

func (c *Container) probes() []health.Probe {
	p := []health.Probe{
		{Name: "identity", Configured: c.Identity != nil},
		{Name: "email", Configured: c.Sender != nil},
	}

	storeProbe := health.Probe{Name: "store", Configured: c.Store != nil}
	if s, ok := c.Store.(*pg.Store); ok {
		storeProbe.Check = func(ctx context.Context) error { return s.Pool().Ping(ctx) }
	}
	p = append(p, storeProbe)

	p = append(p, dedupeProbe(c.Dedupe))
	return p
}

func dedupeProbe(d cache.Client) health.Probe {
	if d == nil {
		return health.Probe{Name: "dedupe"}
	}
	return health.Probe{
		Name:       "dedupe",
		Configured: true,
		Check:      d.Ping,
		Describe: func(ctx context.Context) (string, error) {
			st, err := d.Stats(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s, %d keys", st.Driver, st.Keys), nil
		},
	}
}

// Router returns the full chi router with /metrics.
func (c *Container) Router() http.Handler {
	return router.New(router.Deps{Controllers: c.Controllers, Metrics: metrics.Handler()})
}

// Endpoint returns the handler for one /api endpoint.
func (c *Container) Endpoint(name string) (http.Handler, bool) {
	return router.Endpoint(c.Controllers, name)
}

// Close releases pools and connections in reverse build order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func storeDriver(c *Container) string {
	switch c.Store.(type) {
	case nil:
		return "disabled"
	case *pg.Store:
		return config.StorePostgres
	default:
		return config.StoreREST
	}
}
