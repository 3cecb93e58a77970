package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grmskyi/user-auth-system/config"
	httpserver "github.com/grmskyi/user-auth-system/internal/adapter/http/server"
	"github.com/grmskyi/user-auth-system/internal/adapter/postgres"
	rabbitadapter "github.com/grmskyi/user-auth-system/internal/adapter/rabbit"
	"github.com/grmskyi/user-auth-system/internal/service/auth"
	"github.com/grmskyi/user-auth-system/pkg/logger"
	postgresclient "github.com/grmskyi/user-auth-system/pkg/postgres"
	rabbitclient "github.com/grmskyi/user-auth-system/pkg/rabbit"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbitclient.RabbitMQ
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	rabbit, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)

	// producers
	userProducer, err := rabbitadapter.NewUserProducer(rabbit, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey)
	if err != nil {
		db.Close()
		rabbit.Close(ctx)
		return nil, fmt.Errorf("failed to init user producer: %w", err)
	}

	// services
	tokenSvc, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, log)
	if err != nil {
		db.Close()
		rabbit.Close(ctx)
		return nil, fmt.Errorf("failed to init token service: %w", err)
	}
	authSvc := auth.NewAuthService(userRepo, tokenSvc, userProducer, log)

	server, err := httpserver.New(cfg, authSvc, log)
	if err != nil {
		db.Close()
		rabbit.Close(ctx)
		return nil, err
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   rabbit,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "auth service closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if err := a.rabbitMQ.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	a.postgresDB.Close()
}
