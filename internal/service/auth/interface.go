package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.UserCredentials) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*models.UserCredentials, error)
	Exists(ctx context.Context, email string) (bool, error)
}

type TokenProvider interface {
	Issue(user *models.UserCredentials, extraClaims map[string]any) (string, error)
	Verify(token string) (*models.CustomClaims, error)
	ExtractSubject(token string) (string, error)
}

type EventPublisher interface {
	PublishUserCreated(ctx context.Context, msg models.UserCreatedMessage) error
}
