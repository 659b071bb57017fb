package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kunalsaini/authline-backend/api/responses"
	pkgauth "github.com/kunalsaini/authline-backend/pkg/auth"
	"github.com/kunalsaini/authline-backend/pkg/config"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
)

// authTokenHeader is the header mobile clients send. The standard bearer
// scheme is accepted as well.
const authTokenHeader = "Auth-Token"

// Auth validates the session token and seeds the request context with the
// caller's identity. A missing token and a bad token answer differently on
// purpose: the first is refused outright, the second tells the client to
// re-authenticate.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNoToken, "access denied: no token provided"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID,
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get(authTokenHeader)); raw != "" {
		return raw
	}

	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
