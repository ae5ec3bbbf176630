package client

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/micronstore/storefront/internal/storefront/flash"
	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/internal/storefront/totals"
	"github.com/micronstore/storefront/internal/storefront/ui"
	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonSel = "#add-to-cart-7"

func cartDocument() *view.Memory {
	doc := view.NewMemory(
		flash.Selector, buttonSel, ui.CartCounterSelector, ui.CartItemsSelector, ui.CartSummarySelector,
		totals.SubtotalSelector, totals.BonusPointsSelector, totals.DiscountSelector, totals.TotalSelector, totals.TotalRowSelector,
		CouponSectionSelector, CartItemSelector(7), FavoriteFormSelector(7),
	)
	doc.SetHTML(buttonSel, "Add to cart")
	doc.SetAttr(CouponSectionSelector, "data-apply-url", "/coupons/apply/")
	doc.SetAttr(CouponSectionSelector, "data-remove-url", "/coupons/remove/")
	return doc
}

func newTestPage(t *testing.T, routes map[string]http.HandlerFunc) (*Page, *view.Memory, *view.ManualTimers) {
	t.Helper()
	srv, _ := newStorefront(t, routes)
	c, err := New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Bootstrap(context.Background()))

	doc := cartDocument()
	timers := &view.ManualTimers{}
	return NewPage(c, doc, WithPageAfterFunc(timers.AfterFunc)), doc, timers
}

func TestPageAddToCartConfirmsThenResets(t *testing.T) {
	p, doc, timers := newTestPage(t, map[string]http.HandlerFunc{
		"/cart/add/7/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Added", "message_type": "success", "cart_total": 2})
		},
	})

	_, err := p.AddToCart(context.Background(), buttonSel, 7, 1)
	require.NoError(t, err)

	assert.Equal(t, ui.CheckIconHTML, doc.HTML(buttonSel))
	assert.True(t, doc.Disabled(buttonSel))
	assert.Equal(t, "2", doc.Text(ui.CartCounterSelector))
	assert.Contains(t, doc.HTML(flash.Selector), "alert-success")

	timers.Advance(ui.ButtonResetDelay)
	assert.Equal(t, "Add to cart", doc.HTML(buttonSel))
	assert.False(t, doc.Disabled(buttonSel))
}

func TestPageAddToCartRejectionResetsImmediately(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/cart/add/7/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Not enough stock available", "message_type": "error"})
		},
	})

	res, err := p.AddToCart(context.Background(), buttonSel, 7, 50)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Add to cart", doc.HTML(buttonSel))
	assert.False(t, doc.Disabled(buttonSel))
	assert.Contains(t, doc.HTML(flash.Selector), "Not enough stock available")
	assert.Contains(t, doc.HTML(flash.Selector), "alert-danger")
}

func TestPageAddToCartTransportFailureShowsFallback(t *testing.T) {
	p, doc, _ := newTestPage(t, nil)

	_, err := p.AddToCart(context.Background(), buttonSel, 7, 1)
	require.Error(t, err)
	assert.Contains(t, doc.HTML(flash.Selector), FallbackAddToCart)
	assert.Equal(t, "Add to cart", doc.HTML(buttonSel))
}

func TestPageRemoveLastItemShowsEmptyCart(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/cart/remove/7/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "Removed", "message_type": "success",
				"cart_total": 0, "subtotal": 0, "discount": 0, "total_after_discount": 0, "total_bonus_points": 0,
			})
		},
	})
	doc.Show(totals.TotalRowSelector)

	_, err := p.RemoveFromCart(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, doc.Visible(CartItemSelector(7)))
	assert.Equal(t, ui.EmptyCartHTML, doc.HTML(ui.CartItemsSelector))
	assert.False(t, doc.Visible(ui.CartSummarySelector))
	assert.False(t, doc.Visible(totals.TotalRowSelector))
	assert.Equal(t, "$0.00", doc.Text(totals.SubtotalSelector))
}

func TestPageApplyCouponRendersBadgeAndTotals(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/coupons/apply/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "Coupon applied", "message_type": "success",
				"coupon":   map[string]any{"code": "SPRING10", "discount": 10},
				"subtotal": 100, "discount_amount": 10, "total_after_discount": 90, "total_bonus_points": "30.00",
			})
		},
	})

	res, err := p.ApplyCoupon(context.Background(), buttonSel, "spring10")
	require.NoError(t, err)
	require.True(t, res.Success)

	badge := doc.HTML(CouponSectionSelector)
	assert.Contains(t, badge, "SPRING10")
	assert.Contains(t, badge, "(10% off)")
	assert.Contains(t, badge, totals.DiscountPrefix+"$10.00")
	assert.Contains(t, badge, `action="/coupons/remove/"`)

	assert.Equal(t, "$100.00", doc.Text(totals.SubtotalSelector))
	assert.Equal(t, totals.DiscountPrefix+"$10.00", doc.Text(totals.DiscountSelector))
	assert.Equal(t, "$90.00", doc.Text(totals.TotalSelector))
	assert.True(t, doc.Visible(totals.TotalRowSelector))
}

func TestPageApplyCouponRejectionUsesDefaultMessage(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/coupons/apply/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
		},
	})
	doc.SetHTML(CouponSectionSelector, "form")

	_, err := p.ApplyCoupon(context.Background(), buttonSel, "x")
	require.NoError(t, err)
	assert.Equal(t, "form", doc.HTML(CouponSectionSelector))
	assert.Contains(t, doc.HTML(flash.Selector), "Invalid coupon code")
	assert.False(t, doc.Disabled(buttonSel))
}

func TestPageRemoveCouponRestoresForm(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/coupons/remove/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "Coupon removed", "message_type": "success",
				"subtotal": 100, "discount": 0, "total_after_discount": 100, "total_bonus_points": 30,
			})
		},
	})
	doc.Show(totals.TotalRowSelector)

	_, err := p.RemoveCoupon(context.Background(), buttonSel)
	require.NoError(t, err)
	section := doc.HTML(CouponSectionSelector)
	assert.Contains(t, section, `action="/coupons/apply/"`)
	assert.Contains(t, section, `maxlength="50"`)
	assert.False(t, doc.Visible(totals.TotalRowSelector))
}

func TestPageAddFavoriteHidesForm(t *testing.T) {
	p, doc, _ := newTestPage(t, map[string]http.HandlerFunc{
		"/add-to-favorites/7/": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "already_favorited": true, "message": "Phone is already in favorites!", "message_type": "info"})
		},
	})

	res, err := p.AddFavorite(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, res.AlreadyFavorited)
	assert.False(t, doc.Visible(FavoriteFormSelector(7)))
	assert.Contains(t, doc.HTML(flash.Selector), "already in favorites")
}

func TestPageUsesDocumentLocale(t *testing.T) {
	srv, _ := newStorefront(t, nil)
	c, err := New(srv.URL)
	require.NoError(t, err)

	doc := cartDocument()
	doc.Add(price.LocaleSelector)
	doc.SetAttr(price.LocaleSelector, price.LanguageAttr, "uk")
	doc.SetAttr(price.LocaleSelector, price.RateAttr, "41.5")

	p := NewPage(c, doc)
	assert.True(t, strings.HasPrefix(p.Formatter().Format("10"), "₴"))
}

func TestCouponBadgeEscapesCode(t *testing.T) {
	f := price.NewFormatter(price.DefaultLocale())
	out := CouponBadgeHTML(CouponResult{Coupon: &Coupon{Code: "<b>", Discount: 5}}, f, "/r/")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.NotContains(t, out, "<b>")
}
