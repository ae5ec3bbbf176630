package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Language resolves the UI language from the {lang} URL segment, falling back
// to def for unprefixed routes. Unknown prefixes are not storefront pages.
func Language(def string, supported func(string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := strings.ToLower(chi.URLParam(r, "lang"))
			switch {
			case lang == "":
				lang = def
			case supported == nil || !supported(lang):
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), lang)))
		})
	}
}
