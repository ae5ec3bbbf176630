// Package view is the narrow DOM surface the storefront widgets write to.
package view

// Document exposes the handful of element operations the storefront widgets
// need. Selectors are opaque strings such as "#cart-total" or ".cart-items".
// Operations on a selector that matches nothing are no-ops.
type Document interface {
	Exists(selector string) bool
	Text(selector string) string
	SetText(selector, text string)
	HTML(selector string) string
	SetHTML(selector, html string)
	Show(selector string)
	Hide(selector string)
	Visible(selector string) bool
	Style(selector, property string) string
	SetStyle(selector, property, value string)
	Attr(selector, name string) (string, bool)
	SetAttr(selector, name, value string)
	Disabled(selector string) bool
	SetDisabled(selector string, disabled bool)
}

// History is the browser location as the filter sees it.
type History interface {
	// Location returns the current path plus raw query ("/uk/products/?page=2").
	Location() string
	// Replace swaps the current entry's URL without adding a back-button stop.
	Replace(location string)
}
