package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/pkg/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, ttl, logger.InitLogger("test", logger.LevelError))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func testUser(email string) *models.UserCredentials {
	return &models.UserCredentials{
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Role:      "USER",
	}
}

func TestTokenService_ShortSecretRejected(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour, logger.InitLogger("test", logger.LevelError)); err == nil {
		t.Fatal("expected error for a signing key below the minimum length")
	}
}

func TestIssue_SubjectExtractable(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.Issue(testUser("john.doe@example.com"), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("issued token must not be empty")
	}

	sub, err := svc.ExtractSubject(token)
	if err != nil {
		t.Fatalf("extract subject: %v", err)
	}
	if sub != "john.doe@example.com" {
		t.Fatalf("expected subject to equal the email, got %q", sub)
	}
}

func TestIssue_NoSubject(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	if _, err := svc.Issue(&models.UserCredentials{}, nil); err == nil {
		t.Fatal("expected error issuing a token without a subject")
	}
}

func TestIssue_ExtraClaimsCannotShadowReserved(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.Issue(testUser("john.doe@example.com"), map[string]any{
		"sub":  "impostor@example.com",
		"exp":  0,
		"dept": "engineering",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "john.doe@example.com" {
		t.Fatalf("extra claims must not overwrite the subject, got %q", claims.Subject)
	}
	if claims.Extra["dept"] != "engineering" {
		t.Fatalf("expected extra claim to survive, got %v", claims.Extra)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	ttl := 24 * time.Hour
	svc := newTestTokenService(t, ttl)

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(testUser("john.doe@example.com"), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// One second before expiry the token still validates.
	svc.now = func() time.Time { return issuedAt.Add(ttl - time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token must be valid just before expiry: %v", err)
	}

	// One second past expiry it fails with the expiry error, not a generic one.
	svc.now = func() time.Time { return issuedAt.Add(ttl + time.Second) }
	if _, err := svc.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken past expiry, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.Issue(testUser("john.doe@example.com"), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact three-part token, got %d parts", len(parts))
	}

	// Flip one byte of the claims segment.
	payload := []byte(parts[1])
	mid := len(payload) / 2
	if payload[mid] == 'A' {
		payload[mid] = 'B'
	} else {
		payload[mid] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token must fail verification, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	other, err := NewTokenService(strings.Repeat("x", 32), time.Hour, logger.InitLogger("test", logger.LevelError))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := other.Issue(testUser("john.doe@example.com"), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with another key must be rejected, got %v", err)
	}
}

func TestVerify_MissingExpiryRejected(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	// Hand-craft a token with no exp claim signed with the right key.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "john.doe@example.com",
		"iat": time.Now().Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token without expiry must be rejected, got %v", err)
	}
}

func TestVerify_MissingSubjectRejected(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token without a subject must be rejected, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("garbage %q must be rejected with ErrInvalidToken, got %v", token, err)
		}
	}
}
