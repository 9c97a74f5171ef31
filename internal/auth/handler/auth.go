package handler

import (
	"net/http"
	"time"

	"github.com/retailhub/backoffice/internal/auth/jwt"
	"github.com/retailhub/backoffice/internal/auth/service"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service *service.AuthService
	cookie  config.JWTConfig
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, cfg config.JWTConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		cookie:  cfg,
		logger:  log,
	}
}

// Login handles employee login and sets the auth cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		MaxAge:   int(h.service.CookieMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.JSON(w, http.StatusOK, result)
}

// Logout revokes the current token and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwt.FromRequest(r, h.cookie.CookieName)

	if err := h.service.Logout(r.Context(), token); err != nil {
		httputil.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.Message(w, http.StatusOK, "logged out successfully")
}

// VerifyAuth returns the authenticated employee
func (h *AuthHandler) VerifyAuth(w http.ResponseWriter, r *http.Request) {
	a := actor.FromContext(r.Context())
	if a.IsSystem() {
		httputil.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	httputil.JSON(w, http.StatusOK, service.EmployeeInfo{
		EmployeeID:   a.EmployeeID,
		Name:         a.Name,
		Role:         a.Role,
		DepartmentID: a.DepartmentID,
	})
}
