package ui

import (
	"strconv"

	"github.com/micronstore/storefront/internal/storefront/view"
)

const (
	CartCounterSelector = ".badge.bg-dark.text-white"
	CartItemsSelector   = ".cart-items"
	CartSummarySelector = ".cart-summary"

	EmptyCartHTML = `<div class="text-center"><h3 class="mb-4">Your cart is empty</h3><a href="/products/" class="action-btn continue-btn">Start Shopping</a></div>`
)

// CartCounterText is what the header badge shows for n items.
func CartCounterText(n int) string {
	if n > 0 {
		return strconv.Itoa(n)
	}
	return "0"
}

// UpdateCartCounter writes n into the header badge when the page has one.
func UpdateCartCounter(doc view.Document, n int) {
	doc.SetText(CartCounterSelector, CartCounterText(n))
}

// ShowEmptyCart swaps the cart listing for the empty state and hides the summary.
func ShowEmptyCart(doc view.Document) {
	doc.SetHTML(CartItemsSelector, EmptyCartHTML)
	doc.Hide(CartSummarySelector)
}
