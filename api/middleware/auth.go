package middleware

import (
	"net/http"
	"strings"

	"github.com/micronstore/storefront/api/responses"
	pkgAuth "github.com/micronstore/storefront/pkg/auth"
	"github.com/micronstore/storefront/pkg/config"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

const MsgLoginRequired = "Please log in to continue"

// Auth reads the shopper token from the Authorization header or the token
// cookie. Browsing stays anonymous, so a missing or bad token only leaves the
// context without a user.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" && cfg.CookieName != "" {
				if c, err := r.Cookie(cfg.CookieName); err == nil {
					token = strings.TrimSpace(c.Value)
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := pkgAuth.ParseCustomerToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "reason", err.Error()), "auth.token.rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithUserID(ctx, claims.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests. It must run after Auth.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				responses.WriteRejection(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgLoginRequired), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
