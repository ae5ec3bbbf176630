package middleware

import (
	"net/http"

	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/session"
)

// Session makes sure every request carries an anonymous session id. The cart
// lives under that id, so a missing or malformed cookie gets a fresh one.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(cfg.CookieName); err == nil && session.ValidID(c.Value) {
				sessionID = c.Value
			} else {
				sessionID = session.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.CartTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
