package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/pkg/logger"
)

// MinSecretLen is the minimum signing key length in bytes. HS256 keys
// shorter than the hash output undercut the algorithm's security margin.
const MinSecretLen = 32

// DefaultAccessTTL is the token lifetime when configuration does not set one.
const DefaultAccessTTL = 24 * time.Hour

// Claim names this service reserves; extra claims may not overwrite them.
var reservedClaims = map[string]struct{}{
	"sub": {},
	"iat": {},
	"exp": {},
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewTokenService(secret string, accessTTL time.Duration, log logger.Logger) (*TokenService, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    accessTTL,
		now:    time.Now,
		log:    log,
	}, nil
}

// Issue builds and signs an access token for the user: subject is the email,
// issued-at is now, expiry is now+TTL, all in UTC epoch seconds. Extra claims
// are merged in but can never shadow sub/iat/exp.
func (s *TokenService) Issue(user *models.UserCredentials, extraClaims map[string]any) (string, error) {
	if user == nil || user.Email == "" {
		return "", errors.New("cannot issue token without a subject")
	}

	issuedAt := s.now().UTC()

	claims := jwt.MapClaims{}
	for k, v := range extraClaims {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		claims[k] = v
	}

	claims["sub"] = user.Email
	claims["role"] = user.Role
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(s.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token, checks the HS256 signature and the expiry.
// Returns ErrExpiredToken past the expiry, ErrInvalidToken for anything
// structurally wrong or signed with the wrong key.
func (s *TokenService) Verify(token string) (*models.CustomClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	role, _ := mc["role"].(string)

	claims := &models.CustomClaims{
		Subject: sub,
		Role:    role,
	}

	if iat, ok := mc["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}

	for k, v := range mc {
		switch k {
		case "sub", "iat", "exp", "role":
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}

	return claims, nil
}

// ExtractSubject is a convenience read of the verified subject claim.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
