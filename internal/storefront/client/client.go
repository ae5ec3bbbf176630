// Package client talks to the storefront's XHR endpoints the way the page
// scripts do: form posts carrying the CSRF cookie back as a header, and flat
// JSON answers.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/micronstore/storefront/internal/storefront/filter"
	"github.com/micronstore/storefront/internal/storefront/totals"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/types"
	"golang.org/x/net/publicsuffix"
)

// Fallback messages used when a failed request carries no message of its own.
const (
	FallbackAddToCart      = "Error adding product to cart"
	FallbackUpdateCart     = "Error updating cart"
	FallbackRemoveFromCart = "Error removing product from cart"
	FallbackClearCart      = "Error clearing cart"
	FallbackApplyCoupon    = "Error applying coupon"
	FallbackRemoveCoupon   = "Error removing coupon"
	FallbackAddFavorite    = "Error adding to favorites"
	FallbackFilter         = filter.FailureMessage
	fallbackBootstrap      = "Error loading storefront"
)

const (
	RequestedWithHeader = "X-Requested-With"
	RequestedWithValue  = "XMLHttpRequest"

	defaultCSRFCookie = "csrftoken"
	defaultCSRFHeader = "X-CSRFToken"

	maxBodyBytes = 4 << 20
)

// Response is the part every storefront answer shares.
type Response struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	MessageType enums.MessageType `json:"message_type"`
	Error       string            `json:"error,omitempty"`
}

// CartResult answers the cart mutations.
type CartResult struct {
	Response
	totals.Payload
	CartTotal int `json:"cart_total"`
}

// Coupon describes an applied coupon.
type Coupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

// CouponResult answers coupon apply and remove.
type CouponResult struct {
	Response
	totals.Payload
	Coupon     *Coupon      `json:"coupon,omitempty"`
	TotalPrice types.Amount `json:"total_price"`
}

// FavoriteResult answers the favorite toggle.
type FavoriteResult struct {
	Response
	AlreadyFavorited bool `json:"already_favorited"`
}

// RateResult is the page locale bootstrap.
type RateResult struct {
	Language string       `json:"language"`
	Rate     types.Amount `json:"usd_to_uah_rate"`
}

// PriceRange is the catalogue's effective price span.
type PriceRange struct {
	MinPrice types.Amount `json:"min_price"`
	MaxPrice types.Amount `json:"max_price"`
}

// Client is safe for concurrent use.
type Client struct {
	base       *url.URL
	http       *http.Client
	logg       *logger.Logger
	language   string
	csrfCookie string
	csrfHeader string
	token      string
}

type Option func(*Client)

// WithHTTPClient replaces the transport. A cookie jar is attached when the
// given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logg = logg }
}

// WithLanguage prefixes every path with /<lang>.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = strings.Trim(strings.TrimSpace(lang), "/") }
}

// WithBearerToken authenticates favorite requests.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithCSRFNames overrides the CSRF cookie and header names.
func WithCSRFNames(cookie, header string) Option {
	return func(c *Client) {
		if cookie != "" {
			c.csrfCookie = cookie
		}
		if header != "" {
			c.csrfHeader = header
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid storefront url %q", baseURL))
	}

	c := &Client{
		base:       base,
		logg:       logger.Nop(),
		csrfCookie: defaultCSRFCookie,
		csrfHeader: defaultCSRFHeader,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Path prefixes p with the configured language.
func (c *Client) Path(p string) string {
	if c.language == "" {
		return p
	}
	return "/" + c.language + p
}

// CSRFToken is the token currently held in the cookie jar.
func (c *Client) CSRFToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// Bootstrap loads the home page to obtain the session and CSRF cookies.
func (c *Client) Bootstrap(ctx context.Context) error {
	var out Response
	return c.do(ctx, http.MethodGet, c.Path("/"), nil, "", fallbackBootstrap, &out)
}

// AddToCart adds qty of a product, or sets the quantity when override is true.
func (c *Client) AddToCart(ctx context.Context, productID uint, qty int, override bool) (CartResult, error) {
	return c.cartAdd(ctx, productID, qty, override, FallbackAddToCart)
}

// UpdateCart sets the quantity of a product already in the cart.
func (c *Client) UpdateCart(ctx context.Context, productID uint, qty int) (CartResult, error) {
	return c.cartAdd(ctx, productID, qty, true, FallbackUpdateCart)
}

func (c *Client) cartAdd(ctx context.Context, productID uint, qty int, override bool, fallback string) (CartResult, error) {
	form := url.Values{}
	form.Set("quantity", strconv.Itoa(qty))
	form.Set("override", strconv.FormatBool(override))

	var out CartResult
	err := c.do(ctx, http.MethodPost, c.Path(fmt.Sprintf("/cart/add/%d/", productID)), form, "", fallback, &out)
	return out, err
}

func (c *Client) RemoveFromCart(ctx context.Context, productID uint) (CartResult, error) {
	var out CartResult
	err := c.do(ctx, http.MethodPost, c.Path(fmt.Sprintf("/cart/remove/%d/", productID)), url.Values{}, "", FallbackRemoveFromCart, &out)
	return out, err
}

func (c *Client) ClearCart(ctx context.Context) (CartResult, error) {
	var out CartResult
	err := c.do(ctx, http.MethodPost, c.Path("/cart/clear/"), url.Values{}, "", FallbackClearCart, &out)
	return out, err
}

func (c *Client) ApplyCoupon(ctx context.Context, code string) (CouponResult, error) {
	form := url.Values{}
	form.Set("code", code)

	var out CouponResult
	err := c.do(ctx, http.MethodPost, c.Path("/coupons/apply/"), form, "", FallbackApplyCoupon, &out)
	return out, err
}

func (c *Client) RemoveCoupon(ctx context.Context) (CouponResult, error) {
	var out CouponResult
	err := c.do(ctx, http.MethodPost, c.Path("/coupons/remove/"), url.Values{}, "", FallbackRemoveCoupon, &out)
	return out, err
}

func (c *Client) AddFavorite(ctx context.Context, productID uint) (FavoriteResult, error) {
	var out FavoriteResult
	err := c.do(ctx, http.MethodPost, c.Path(fmt.Sprintf("/add-to-favorites/%d/", productID)), url.Values{}, "", FallbackAddFavorite, &out)
	return out, err
}

// FilterProducts implements filter.Fetcher. path already carries any language prefix.
func (c *Client) FilterProducts(ctx context.Context, path string, query filter.Query) (filter.Result, error) {
	var out filter.Result
	err := c.do(ctx, http.MethodGet, path, nil, query.Encode(), FallbackFilter, &out)
	return out, err
}

// CurrencyRate fetches the page locale for the configured language.
func (c *Client) CurrencyRate(ctx context.Context) (RateResult, error) {
	var out RateResult
	err := c.do(ctx, http.MethodGet, c.Path("/currency/rate"), nil, "", "Error loading exchange rate", &out)
	return out, err
}

// PriceRange fetches the slider bounds.
func (c *Client) PriceRange(ctx context.Context) (PriceRange, error) {
	var out PriceRange
	err := c.do(ctx, http.MethodGet, c.Path("/products/price-range"), nil, "", "Error loading price range", &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, rawQuery, fallback string, out any) error {
	target := c.base.ResolveReference(&url.URL{Path: path, RawQuery: rawQuery})

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
	req.Header.Set(RequestedWithHeader, RequestedWithValue)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(c.csrfHeader, token)
		}
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	ctx = c.logg.WithFields(ctx, map[string]any{"method": method, "path": path})
	resp, err := c.http.Do(req)
	if err != nil {
		c.logg.Error(ctx, "storefront.request.failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallback)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallback)
	}
	c.logg.Debug(c.logg.WithField(ctx, "status", resp.StatusCode), "storefront.request.complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.New(pkgerrors.CodeDependency, serverMessage(payload, fallback)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallback)
	}
	return nil
}

// serverMessage prefers the JSON message, then the JSON error, then fallback.
func serverMessage(payload []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return fallback
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	switch e := body.Error.(type) {
	case string:
		if strings.TrimSpace(e) != "" {
			return e
		}
	case map[string]any:
		if m, ok := e["message"].(string); ok && strings.TrimSpace(m) != "" {
			return m
		}
	}
	return fallback
}
