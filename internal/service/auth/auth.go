package auth

import (
	"context"
	"errors"
	"time"

	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	"github.com/grmskyi/user-auth-system/pkg/logger"
	wrap "github.com/grmskyi/user-auth-system/pkg/logger/wrapper"
	"github.com/grmskyi/user-auth-system/pkg/metrics"
	"github.com/grmskyi/user-auth-system/pkg/passhash"
)

const publishTimeout = 5 * time.Second

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	publisher    EventPublisher
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, publisher EventPublisher, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		publisher:    publisher,
		log:          log,
	}
}

// Register creates a credential record and returns a fresh access token.
// The created-user event is dispatched best-effort: the broker being down
// never fails a registration that the store accepted.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (string, error) {
	ctx = wrap.WithAction(ctx, "user_register")

	exists, err := s.userRepo.Exists(ctx, req.Email)
	if err != nil {
		s.log.Error(ctx, "failed to check email existence", err)
		return "", ErrUnexpected
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeFailure).Inc()
		return "", types.ErrEmailAlreadyExists
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to hash password", err)
		return "", ErrUnexpected
	}

	newUser := models.UserCredentials{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      types.UserRoleUser.String(),
	}
	newUser.SetPasswordHash(hash)

	if _, err := s.userRepo.Create(ctx, &newUser); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index is the final arbiter and its verdict reads the same way.
		if errors.Is(err, types.ErrEmailAlreadyExists) {
			metrics.RegistrationsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeFailure).Inc()
			return "", types.ErrEmailAlreadyExists
		}
		s.log.Error(ctx, "failed to save user credentials", err)
		return "", ErrUnexpected
	}

	s.log.Info(ctx, "user registered", "email", newUser.Email)
	s.publishUserCreated(ctx, &newUser)

	token, err := s.tokenService.Issue(&newUser, nil)
	if err != nil {
		s.log.Error(ctx, "failed to issue access token", err)
		return "", ErrTokenGenerateFail
	}

	metrics.RegistrationsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeSuccess).Inc()
	return token, nil
}

// Login verifies the password and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	ctx = wrap.WithAction(ctx, "user_login")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error(ctx, "failed to look up user", err)
		return "", ErrUnexpected
	}

	if user == nil {
		// Burn an equal-cost comparison so an unknown email costs the
		// same as a wrong password.
		_, _ = passhash.VerifyPassword(password, passhash.DummyDigest)
		metrics.LoginsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeFailure).Inc()
		return "", ErrInvalidCredentials
	}

	if ok, err := passhash.VerifyPassword(password, user.GetPasswordHash()); err != nil || !ok {
		metrics.LoginsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeFailure).Inc()
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Issue(user, nil)
	if err != nil {
		s.log.Error(ctx, "failed to issue access token", err)
		return "", ErrTokenGenerateFail
	}

	metrics.LoginsTotal.WithLabelValues(types.ServiceName, metrics.OutcomeSuccess).Inc()
	return token, nil
}

// Authenticate resolves a bearer token into the stored credential it names.
// Verification is self-contained; the store lookup additionally confirms
// the subject still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.UserCredentials, error) {
	ctx = wrap.WithAction(ctx, types.ActionTokenValidate)

	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		s.log.Error(ctx, "failed to resolve token subject", err)
		return nil, ErrUnexpected
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}

	return user, nil
}

// publishUserCreated dispatches the created-user event without blocking the
// request. Failures are logged and counted, never surfaced to the caller.
func (s *AuthService) publishUserCreated(ctx context.Context, user *models.UserCredentials) {
	if s.publisher == nil {
		return
	}

	msg := models.NewUserCreatedMessage(user)
	pubCtx := wrap.WithAction(context.WithoutCancel(ctx), types.ActionUserCreatedPublish)

	go func() {
		pubCtx, cancel := context.WithTimeout(pubCtx, publishTimeout)
		defer cancel()

		if err := s.publisher.PublishUserCreated(pubCtx, msg); err != nil {
			s.log.Error(pubCtx, "failed to publish user created event", err, "email", msg.Email)
			metrics.EventsPublishedTotal.WithLabelValues(types.ServiceName, metrics.OutcomeFailure).Inc()
			return
		}
		metrics.EventsPublishedTotal.WithLabelValues(types.ServiceName, metrics.OutcomeSuccess).Inc()
	}()
}
