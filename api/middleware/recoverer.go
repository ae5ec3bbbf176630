package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/micronstore/storefront/api/responses"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

// IsXHR reports whether the request came from page scripts, which expect
// the flat storefront body instead of the error envelope.
func IsXHR(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// Recoverer turns a handler panic into a 500. Aborted handlers keep
// propagating so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				ctx := r.Context()
				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", rec), "panic")
				if logg != nil {
					logg.Error(logg.WithField(ctx, "panic", rec), "panic.recovered", err)
				}
				if IsXHR(r) {
					responses.WriteRejection(ctx, nil, w, err, nil)
					return
				}
				responses.WriteError(ctx, nil, w, err)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
