package handler

import (
	"context"
	"net/http"

	"github.com/grmskyi/user-auth-system/internal/adapter/http/handler/dto"
	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/pkg/logger"
	wrap "github.com/grmskyi/user-auth-system/pkg/logger/wrapper"
	"github.com/grmskyi/user-auth-system/pkg/validator"
)

// jwtCookieName is the client-side token artifact cleared on logout.
const jwtCookieName = "JWT"

type AuthService interface {
	Register(ctx context.Context, newUser *models.UserCreateRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.UserCredentials, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Register a new user with the provided credentials and return a JWT access token.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.AuthResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/auth/register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterUserRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateNewUser(v, req)

	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.auth.Register(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"access_token": token}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Login godoc
// @Summary      Login to the system
// @Description  Authenticate a user and return a JWT access token.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.AuthResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"access_token": token}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Logout godoc
// @Summary      Logout from the system
// @Description  Clears the client-held token cookie. Tokens are stateless: an already-issued token stays valid until its natural expiry.
// @Tags         Authentication
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/auth/logout [post]
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "logout_user")

	// No server-side session exists to revoke; instruct the client to
	// discard its token artifact.
	http.SetCookie(w, &http.Cookie{
		Name:     jwtCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	h.l.Info(ctx, "user logged out")

	response := envelope{"message": "logged out"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Profile godoc
// @Summary      Current user profile
// @Description  Returns the credential resolved from the bearer token.
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.UserCredentials
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	response := envelope{
		"user": user,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
