package ui

import (
	"testing"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButtonStateMarkAndReset(t *testing.T) {
	var timers view.ManualTimers
	doc := view.NewMemory(".add-to-cart-btn")
	doc.SetHTML(".add-to-cart-btn", "Add to cart")

	b := NewButtonState(doc, ".add-to-cart-btn", timers.AfterFunc)
	b.MarkSuccess()
	b.MarkSuccess()
	assert.Equal(t, CheckIconHTML, doc.HTML(".add-to-cart-btn"))
	assert.True(t, doc.Disabled(".add-to-cart-btn"))

	b.ResetAfter(ButtonResetDelay)
	timers.Advance(ButtonResetDelay - time.Millisecond)
	assert.True(t, doc.Disabled(".add-to-cart-btn"))

	timers.Advance(time.Millisecond)
	assert.Equal(t, "Add to cart", doc.HTML(".add-to-cart-btn"), "original label survives double marking")
	assert.False(t, doc.Disabled(".add-to-cart-btn"))
}

func TestButtonStateResetWithoutMarkIsNoop(t *testing.T) {
	doc := view.NewMemory("button")
	doc.SetHTML("button", "Apply Coupon")
	NewButtonState(doc, "button", nil).Reset()
	assert.Equal(t, "Apply Coupon", doc.HTML("button"))
}

func TestQuantityStepper(t *testing.T) {
	q := NewQuantityStepper("1")
	assert.Equal(t, 2, q.Increment())
	assert.Equal(t, 1, q.Decrement())
	assert.Equal(t, 0, q.Decrement())
	assert.Equal(t, 0, q.Decrement(), "never below zero")
	assert.Equal(t, "0", q.String())

	assert.Equal(t, 0, NewQuantityStepper("abc").Value)
}

func TestSearchPopup(t *testing.T) {
	var s SearchPopup
	assert.True(t, s.Toggle())
	s.HandleOverlayClick(false)
	assert.True(t, s.Visible(), "clicks inside the form keep it open")
	s.HandleKey(13)
	assert.True(t, s.Visible())
	s.HandleKey(EscapeKey)
	assert.False(t, s.Visible())

	s.Toggle()
	s.HandleOverlayClick(true)
	assert.False(t, s.Visible())
	assert.True(t, s.Toggle())
	assert.False(t, s.Toggle())
}

func TestGallerySelect(t *testing.T) {
	var timers view.ManualTimers
	doc := view.NewMemory(MainImageSelector)
	g := NewGallery(doc, []string{"/media/a.jpg", "/media/b.jpg"}, timers.AfterFunc)

	require.NoError(t, g.Select(1))
	assert.Equal(t, 1, g.Active())
	assert.Equal(t, "0", doc.Style(MainImageSelector, "opacity"))

	timers.Advance(ImageFadeDelay)
	src, _ := doc.Attr(MainImageSelector, "src")
	zoom, _ := doc.Attr(MainImageSelector, ZoomAttr)
	assert.Equal(t, "/media/b.jpg", src)
	assert.Equal(t, "/media/b.jpg", zoom)
	assert.Equal(t, "1", doc.Style(MainImageSelector, "opacity"))

	assert.Error(t, g.Select(5))
	assert.Error(t, g.Select(-1))
}

func TestCartCounterAndEmptyCart(t *testing.T) {
	assert.Equal(t, "3", CartCounterText(3))
	assert.Equal(t, "0", CartCounterText(0))
	assert.Equal(t, "0", CartCounterText(-1))

	doc := view.NewMemory(CartCounterSelector, CartItemsSelector, CartSummarySelector)
	UpdateCartCounter(doc, 4)
	assert.Equal(t, "4", doc.Text(CartCounterSelector))

	ShowEmptyCart(doc)
	assert.Equal(t, EmptyCartHTML, doc.HTML(CartItemsSelector))
	assert.False(t, doc.Visible(CartSummarySelector))

	UpdateCartCounter(view.NewMemory(), 2)
}
