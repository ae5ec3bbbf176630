package controllers

import (
	"net/http"

	"github.com/micronstore/storefront/api/responses"
)

// Home is the page bootstrap: the session and CSRF middleware have already
// set their cookies by the time it runs.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteStorefrontSuccess(w, "", nil)
	}
}
