package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	"github.com/grmskyi/user-auth-system/internal/service/auth"
	"github.com/grmskyi/user-auth-system/pkg/logger"
)

type stubAuth struct {
	user *models.UserCredentials
	err  error

	gotToken string
	calls    int
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.UserCredentials, error) {
	s.calls++
	s.gotToken = token
	return s.user, s.err
}

func testUser() *models.UserCredentials {
	return &models.UserCredentials{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Role:  string(types.UserRoleUser),
	}
}

// captureHandler records the identity the gate injected for the request.
func captureHandler(got **models.UserCredentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*got = models.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuth_NoHeaderPassesThroughAnonymous(t *testing.T) {
	stub := &stubAuth{}
	m := NewMiddleware(stub, logger.InitLogger("test", logger.LevelError))

	var got *models.UserCredentials
	srv := m.Auth(captureHandler(&got))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got == nil || !got.IsAnonymous() {
		t.Fatalf("expected anonymous identity in context, got %+v", got)
	}
	if stub.calls != 0 {
		t.Errorf("Authenticate called %d times for header-less request", stub.calls)
	}
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	user := testUser()
	stub := &stubAuth{user: user}
	m := NewMiddleware(stub, logger.InitLogger("test", logger.LevelError))

	var got *models.UserCredentials
	srv := m.Auth(captureHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some.jwt.token")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.gotToken != "some.jwt.token" {
		t.Errorf("gate passed token %q to service", stub.gotToken)
	}
	if got == nil || got.Email != user.Email {
		t.Fatalf("expected %q in context, got %+v", user.Email, got)
	}
}

func TestAuth_MalformedHeaderRejected(t *testing.T) {
	headers := []string{
		"some.jwt.token",  // no scheme
		"Basic dXNlcg==",  // wrong scheme
		"Bearer",          // no token
		"Bearer ",         // empty token
	}

	for _, h := range headers {
		stub := &stubAuth{}
		m := NewMiddleware(stub, logger.InitLogger("test", logger.LevelError))

		called := false
		srv := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", h)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", h, rec.Code, http.StatusUnauthorized)
		}
		if called {
			t.Errorf("header %q: handler ran despite malformed header", h)
		}
		if stub.calls != 0 {
			t.Errorf("header %q: token reached the service", h)
		}
	}
}

func TestAuth_InvalidTokenUniform401(t *testing.T) {
	errs := []error{
		auth.ErrInvalidToken,
		auth.ErrExpiredToken,
		auth.ErrUnknownSubject,
	}

	var bodies []string
	for _, e := range errs {
		stub := &stubAuth{err: e}
		m := NewMiddleware(stub, logger.InitLogger("test", logger.LevelError))

		called := false
		srv := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad.token.here")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%v: status = %d, want %d", e, rec.Code, http.StatusUnauthorized)
		}
		if called {
			t.Errorf("%v: handler ran despite failed authentication", e)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// The caller must not be able to tell the failure modes apart.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("response bodies differ between failure modes: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestAuth_AlreadyAuthenticatedSkipsRevalidation(t *testing.T) {
	stub := &stubAuth{}
	m := NewMiddleware(stub, logger.InitLogger("test", logger.LevelError))

	user := testUser()
	var got *models.UserCredentials
	srv := m.Auth(captureHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	req = req.WithContext(models.WithUser(req.Context(), user))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if stub.calls != 0 {
		t.Errorf("Authenticate called %d times for request with established identity", stub.calls)
	}
	if got != user {
		t.Errorf("existing identity was replaced")
	}
}

func TestRequireRoles(t *testing.T) {
	m := NewMiddleware(&stubAuth{}, logger.InitLogger("test", logger.LevelError))

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name  string
		user  *models.UserCredentials
		roles []types.UserRole
		want  int
	}{
		{"no identity", nil, nil, http.StatusUnauthorized},
		{"anonymous", models.AnonymousUser(), nil, http.StatusUnauthorized},
		{"authenticated, no role filter", testUser(), nil, http.StatusOK},
		{"user allowed", testUser(), []types.UserRole{types.UserRoleUser}, http.StatusOK},
		{"user lacks admin", testUser(), []types.UserRole{types.UserRoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := m.RequireRoles(handler, tt.roles...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(models.WithUser(req.Context(), tt.user))
			}

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestExtractBearerToken_CaseInsensitiveScheme(t *testing.T) {
	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		token, err := extractBearerToken(scheme + " abc.def.ghi")
		if err != nil {
			t.Errorf("scheme %q rejected: %v", scheme, err)
		}
		if token != "abc.def.ghi" {
			t.Errorf("scheme %q: token = %q", scheme, token)
		}
	}

	if _, err := extractBearerToken(strings.Repeat(" ", 3)); err == nil {
		t.Error("blank header accepted")
	}
}
