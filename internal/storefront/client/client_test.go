package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/micronstore/storefront/internal/storefront/filter"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRF = "csrf-secret"

type recorded struct {
	method string
	path   string
	query  string
	form   map[string]string
	header http.Header
}

func newStorefront(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *[]recorded) {
	t.Helper()
	var seen []recorded
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		seen = append(seen, recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, form: form, header: r.Header.Clone()})

		if r.URL.Path == "/" || r.URL.Path == "/uk/" {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: testCSRF, Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		if r.Method == http.MethodPost && r.Header.Get("X-CSRFToken") != testCSRF {
			writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "CSRF verification failed."})
			return
		}
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New("not a url")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewLeavesTimeoutsToTheTransport(t *testing.T) {
	c, err := New("http://shop.test")
	require.NoError(t, err)
	assert.Zero(t, c.http.Timeout)
	assert.NotNil(t, c.http.Jar)
}

func TestAddToCartSendsCSRFAndXHRHeaders(t *testing.T) {
	srv, seen := newStorefront(t, map[string]http.HandlerFunc{
		"/uk/cart/add/7/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "Product added to cart", "message_type": "success",
				"cart_total": 3, "subtotal": 30.5, "discount": 0, "total_after_discount": 30.5, "total_bonus_points": "9.15",
			})
		},
	})
	c, err := New(srv.URL, WithLanguage("uk"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Bootstrap(ctx))
	assert.Equal(t, testCSRF, c.CSRFToken())

	res, err := c.AddToCart(ctx, 7, 2, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.CartTotal)
	assert.True(t, res.Subtotal.Value.Equal(decimal.RequireFromString("30.5")))
	assert.Equal(t, "9.15", res.TotalBonusPoints.String())

	last := (*seen)[len(*seen)-1]
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "XMLHttpRequest", last.header.Get("X-Requested-With"))
	assert.Equal(t, testCSRF, last.header.Get("X-CSRFToken"))
	assert.Equal(t, "2", last.form["quantity"])
	assert.Equal(t, "false", last.form["override"])
}

func TestUpdateCartOverrides(t *testing.T) {
	srv, seen := newStorefront(t, map[string]http.HandlerFunc{
		"/cart/add/2/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "cart_total": 5})
		},
	})
	c, err := New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Bootstrap(context.Background()))

	_, err = c.UpdateCart(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "true", (*seen)[len(*seen)-1].form["override"])
}

func TestBusinessRejectionIsAResult(t *testing.T) {
	srv, _ := newStorefront(t, map[string]http.HandlerFunc{
		"/coupons/apply/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid coupon code", "message_type": "error"})
		},
	})
	c, err := New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Bootstrap(context.Background()))

	res, err := c.ApplyCoupon(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid coupon code", res.Message)
}

func TestTransportFailuresUseServerMessageOrFallback(t *testing.T) {
	srv, _ := newStorefront(t, map[string]http.HandlerFunc{
		"/cart/clear/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Cart backend down"})
		},
		"/cart/remove/1/": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		},
		"/coupons/remove/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": map[string]any{"code": "DEPENDENCY_ERROR", "message": "redis unavailable"}})
		},
	})
	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Bootstrap(ctx))

	_, err = c.ClearCart(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, "Cart backend down", pkgerrors.As(err).Message())

	_, err = c.RemoveFromCart(ctx, 1)
	assert.Equal(t, FallbackRemoveFromCart, pkgerrors.As(err).Message())

	_, err = c.RemoveCoupon(ctx)
	assert.Equal(t, "redis unavailable", pkgerrors.As(err).Message())

	_, err = c.AddFavorite(ctx, 99)
	assert.Equal(t, FallbackAddFavorite, pkgerrors.As(err).Message())
}

func TestMissingCSRFIsRejected(t *testing.T) {
	srv, _ := newStorefront(t, nil)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.ClearCart(context.Background())
	require.Error(t, err)
	assert.Equal(t, "CSRF verification failed.", pkgerrors.As(err).Message())
}

func TestNetworkErrorWrapsFallback(t *testing.T) {
	srv, _ := newStorefront(t, nil)
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.AddToCart(context.Background(), 1, 1, false)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, FallbackAddToCart, pkgerrors.As(err).Message())
}

func TestFilterProductsAndFavoritesAuth(t *testing.T) {
	srv, seen := newStorefront(t, map[string]http.HandlerFunc{
		"/uk/products/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "html": "<div>" + r.URL.Query().Get("page") + "</div>"})
		},
		"/add-to-favorites/4/": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Login required"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "already_favorited": true, "message": "Phone is already in favorites!", "message_type": "info"})
		},
	})
	c, err := New(srv.URL, WithBearerToken("tok"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Bootstrap(ctx))

	q := filter.BuildQuery(filter.Criteria{MinPrice: decimal.Zero, MaxPrice: decimal.NewFromInt(100), Page: 2})
	res, err := c.FilterProducts(ctx, "/uk/products/", q)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "<div>2</div>", res.HTML)
	filterReq := (*seen)[len(*seen)-1]
	assert.Equal(t, "min_price=0&max_price=100&page=2", filterReq.query)
	assert.Empty(t, filterReq.header.Get("X-CSRFToken"), "GET requests carry no CSRF header")

	fav, err := c.AddFavorite(ctx, 4)
	require.NoError(t, err)
	assert.True(t, fav.AlreadyFavorited)
	assert.Equal(t, "info", string(fav.MessageType))
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "fb", serverMessage([]byte("nope"), "fb"))
	assert.Equal(t, "boom", serverMessage([]byte(`{"error":"boom"}`), "fb"))
	assert.Equal(t, "fb", serverMessage([]byte(`{"error":"  "}`), "fb"))
	assert.Equal(t, "m", serverMessage([]byte(`{"message":"m","error":"e"}`), "fb"))
}
