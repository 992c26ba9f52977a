package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/CardChase151/clients-sub001/internal/config"
	"github.com/CardChase151/clients-sub001/internal/http/controllers"
	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	"github.com/CardChase151/clients-sub001/internal/http/router"
	"github.com/CardChase151/clients-sub001/internal/http/services"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// lazyContainer builds the container on first use and keeps it only once a
// build succeeds; a failed build is retried on the next request.
type lazyContainer struct {
	mu    sync.Mutex
	c     *Container
	build func(ctx context.Context) (*Container, error)
}

func (l *lazyContainer) get(ctx context.Context) (*Container, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c != nil {
		return l.c, nil
	}
	c, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.c = c
	return c, nil
}

func (l *lazyContainer) handler(endpoint string) http.HandlerFunc {
	// Serves while the container cannot be built: method checks still
	// answer 405 and everything else answers "Server configuration error".
	unconfigured := controllers.New(services.New(services.Deps{}))

	return func(w http.ResponseWriter, r *http.Request) {
		ctrls := unconfigured
		c, err := l.get(context.WithoutCancel(r.Context()))
		if err != nil {
			logger.L().Error("container build failed, retrying on next request",
				logger.Layer("app"), logger.Component(endpoint), logger.Err(err))
		} else {
			ctrls = c.Controllers
		}

		h, ok := router.Endpoint(ctrls, endpoint)
		if !ok {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		h.ServeHTTP(w, r)
	}
}

func buildFromEnv(ctx context.Context) (*Container, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "adminfn",
		Version:     Version,
	})
	return New(ctx, cfg)
}

var shared = &lazyContainer{build: buildFromEnv}

// Serverless returns the handler for one endpoint as deployed on its own.
// The container is built from the environment on the first request and
// shared by every endpoint in the process.
func Serverless(endpoint string) http.HandlerFunc {
	return shared.handler(endpoint)
}
