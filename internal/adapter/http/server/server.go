package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/grmskyi/user-auth-system/config"
	"github.com/grmskyi/user-auth-system/internal/adapter/http/handler"
	"github.com/grmskyi/user-auth-system/internal/adapter/http/middleware"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	"github.com/grmskyi/user-auth-system/pkg/logger"
	wrap "github.com/grmskyi/user-auth-system/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	auth   *handler.Auth
	health *handler.Health
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		auth:   handler.NewAuth(authService, log),
		health: handler.NewHealth(types.ServiceName, log),
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Auth(a.mux)
	chain = a.m.Metrics(types.ServiceName)(chain)
	chain = a.m.Logging(chain)
	chain = a.m.RequestID(chain)
	return a.m.Recover(chain)
}
