// Package ui holds the small page affordances around the cart and catalogue.
package ui

import (
	"sync"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
)

const (
	// CheckIconHTML replaces a button's label while its action is in flight.
	CheckIconHTML = `<i class="fa-solid fa-check"></i>`
	// ButtonResetDelay keeps the add-to-cart button confirmed after success.
	ButtonResetDelay = 2 * time.Second
)

// ButtonState flips a submit button into its confirmed state and back.
type ButtonState struct {
	doc       view.Document
	selector  string
	afterFunc view.AfterFunc

	mu       sync.Mutex
	original string
	marked   bool
}

func NewButtonState(doc view.Document, selector string, afterFunc view.AfterFunc) *ButtonState {
	if afterFunc == nil {
		afterFunc = view.RealAfterFunc
	}
	return &ButtonState{doc: doc, selector: selector, afterFunc: afterFunc}
}

// MarkSuccess shows the check icon and disables the button, remembering its label.
func (b *ButtonState) MarkSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.marked {
		b.original = b.doc.HTML(b.selector)
		b.marked = true
	}
	b.doc.SetHTML(b.selector, CheckIconHTML)
	b.doc.SetDisabled(b.selector, true)
}

// Reset restores the label captured by MarkSuccess and re-enables the button.
func (b *ButtonState) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.marked {
		return
	}
	b.doc.SetHTML(b.selector, b.original)
	b.doc.SetDisabled(b.selector, false)
	b.marked = false
}

// ResetAfter schedules Reset.
func (b *ButtonState) ResetAfter(d time.Duration) view.Timer {
	return b.afterFunc(d, b.Reset)
}
