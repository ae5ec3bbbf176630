package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micronstore/storefront/internal/storefront/client"
	"github.com/micronstore/storefront/internal/storefront/price"
)

func fakeStorefront(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /uk/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok", Path: "/"})
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /uk/currency/rate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"language":"uk","usd_to_uah_rate":40}`))
	})
	mux.HandleFunc("POST /uk/cart/add/3/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRFToken") != "tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Product added to cart","message_type":"success","cart_total":2,"subtotal":25.5,"discount":0,"total_after_discount":25.5,"total_bonus_points":"3"}`))
	})
	mux.HandleFunc("POST /uk/coupons/apply/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"Coupon applied successfully","message_type":"success","coupon":{"code":"SPRING10","discount":10},"subtotal":25.5,"discount_amount":2.55,"total_after_discount":22.95,"total_bonus_points":"3"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunnerSteps(t *testing.T) {
	srv := fakeStorefront(t)
	c, err := client.New(srv.URL, client.WithLanguage("uk"))
	require.NoError(t, err)

	var out bytes.Buffer
	r := &runner{client: c, out: &out, locale: price.NewLocale("uk", "")}
	require.NoError(t, r.run(t.Context(), []string{"add:3:2", "coupon:SPRING10", "summary"}))

	assert.True(t, r.locale.HasRate())
	assert.Contains(t, out.String(), "[success] Product added to cart")
	assert.Contains(t, out.String(), "cart items: 2")
	assert.Contains(t, out.String(), "coupon SPRING10 (-10%)")
	assert.Contains(t, out.String(), "discount – ")
}

func TestRunnerRejectsUnknownStep(t *testing.T) {
	srv := fakeStorefront(t)
	c, err := client.New(srv.URL, client.WithLanguage("uk"))
	require.NoError(t, err)

	r := &runner{client: c, out: &bytes.Buffer{}, locale: price.DefaultLocale()}
	err = r.run(t.Context(), []string{"checkout"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = parseID("0")
	assert.Error(t, err)
	_, err = parseID("x")
	assert.Error(t, err)
}
