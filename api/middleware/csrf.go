package middleware

import (
	"net/http"

	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/session"
	"github.com/micronstore/storefront/pkg/types"
)

const MsgCSRFFailed = "CSRF verification failed."

// CSRF implements the double-submit cookie check. Safe requests get a token
// cookie the page scripts can read; unsafe ones must echo it in the header.
func CSRF(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var token string
			if c, err := r.Cookie(cfg.CSRFCookieName); err == nil {
				token = c.Value
			}

			if isSafeMethod(r.Method) {
				if token == "" {
					fresh, err := session.NewCSRFToken()
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "csrf token"))
						return
					}
					http.SetCookie(w, &http.Cookie{
						Name:     cfg.CSRFCookieName,
						Value:    fresh,
						Path:     "/",
						Secure:   cfg.SecureCookies,
						SameSite: http.SameSiteLaxMode,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			if !session.TokensMatch(token, r.Header.Get(cfg.CSRFHeaderName)) {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "has_cookie", token != ""), "csrf.rejected")
				}
				responses.WriteStorefront(w, http.StatusForbidden, types.StorefrontResponse{
					Success:     false,
					Message:     MsgCSRFFailed,
					MessageType: enums.MessageError.String(),
				}, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
