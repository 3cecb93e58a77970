package middleware

import (
	"context"

	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/pkg/logger"
)

type (
	AuthService interface {
		Authenticate(ctx context.Context, token string) (*models.UserCredentials, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
