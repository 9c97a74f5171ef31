// Package middleware guards routes with the auth token and the caller's role.
package middleware

import (
	"context"
	"net/http"

	"github.com/retailhub/backoffice/internal/auth/jwt"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/permissions"
)

// TokenAuthenticator resolves a raw token to the calling employee
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*actor.Actor, error)
}

// Authenticator validates tokens and places the caller on the request context
type Authenticator struct {
	auth       TokenAuthenticator
	cookieName string
	logger     *logger.Logger
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(auth TokenAuthenticator, cookieName string, log *logger.Logger) *Authenticator {
	return &Authenticator{
		auth:       auth,
		cookieName: cookieName,
		logger:     log,
	}
}

// Authenticate rejects requests without a valid, unrevoked token
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := jwt.FromRequest(r, a.cookieName)

		caller, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			a.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
			httputil.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), caller)))
	})
}

// RequireArea rejects callers whose role does not grant the area.
// Must run after Authenticate.
func RequireArea(area string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := actor.FromContext(r.Context())
			if caller.IsSystem() {
				httputil.Error(w, errors.Unauthorized("authentication required"))
				return
			}
			if !permissions.CanAccess(caller.Role, area) {
				httputil.Error(w, errors.Forbidden("access denied for role "+caller.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
