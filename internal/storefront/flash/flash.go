// Package flash shows the transient banner that reports the outcome of a
// storefront action.
package flash

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/micronstore/storefront/pkg/enums"
	"github.com/micronstore/storefront/pkg/logger"
)

const (
	// Selector is the region the banner is rendered into.
	Selector = "#flash-messages"
	// DismissAfter is how long a banner stays on screen.
	DismissAfter = 2500 * time.Millisecond
)

// Banner is a rendered flash message.
type Banner struct {
	Text  string
	Class string
	Icon  string
}

// NewBanner styles message by its type. Anything but success renders as a danger alert.
func NewBanner(message string, t enums.MessageType) Banner {
	if t.IsSuccess() {
		return Banner{Text: message, Class: "alert-success", Icon: "fa-check-circle"}
	}
	return Banner{Text: message, Class: "alert-danger", Icon: "fa-exclamation-triangle"}
}

// HTML renders the banner markup with the message escaped.
func (b Banner) HTML() string {
	return fmt.Sprintf(
		`<div class="container" style="padding-top: 90px;"><h6 id="message-timer" class="alert %s text-center"><i class="fa %s" aria-hidden="true"></i>&nbsp; %s</h6></div>`,
		b.Class, b.Icon, html.EscapeString(b.Text),
	)
}

// Notifier owns the single banner slot of a page.
type Notifier struct {
	doc       view.Document
	afterFunc view.AfterFunc
	logg      *logger.Logger

	mu      sync.Mutex
	current *Banner
	timer   view.Timer
	gen     uint64
}

type Option func(*Notifier)

// WithAfterFunc replaces the dismissal timer source.
func WithAfterFunc(fn view.AfterFunc) Option {
	return func(n *Notifier) { n.afterFunc = fn }
}

func WithLogger(logg *logger.Logger) Option {
	return func(n *Notifier) { n.logg = logg }
}

func NewNotifier(doc view.Document, opts ...Option) *Notifier {
	n := &Notifier{doc: doc, afterFunc: view.RealAfterFunc, logg: logger.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show replaces any visible banner with a new one and schedules its dismissal.
func (n *Notifier) Show(message string, t enums.MessageType) {
	banner := NewBanner(message, t)

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &banner
	n.doc.SetHTML(Selector, banner.HTML())
	n.doc.Show(Selector)

	n.logg.Debug(n.logg.WithFields(context.Background(), map[string]any{
		"message_type": string(t),
		"text":         message,
	}), "flash.shown")

	n.gen++
	gen := n.gen
	n.timer = n.afterFunc(DismissAfter, func() { n.dismiss(gen) })
}

// ShowError is Show with the error style.
func (n *Notifier) ShowError(message string) {
	n.Show(message, enums.MessageError)
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.current = nil
	n.timer = nil
	n.doc.Hide(Selector)
}

// Current returns the banner on screen, if any.
func (n *Notifier) Current() (Banner, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Banner{}, false
	}
	return *n.current, true
}
