package flash

import (
	"strings"
	"testing"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/micronstore/storefront/pkg/enums"
)

func TestNewBannerStyles(t *testing.T) {
	ok := NewBanner("Added", enums.MessageSuccess)
	if ok.Class != "alert-success" || ok.Icon != "fa-check-circle" {
		t.Fatalf("unexpected success banner %+v", ok)
	}
	for _, mt := range []enums.MessageType{enums.MessageError, enums.MessageInfo, enums.MessageWarning, ""} {
		b := NewBanner("x", mt)
		if b.Class != "alert-danger" || b.Icon != "fa-exclamation-triangle" {
			t.Fatalf("type %q: unexpected banner %+v", mt, b)
		}
	}
}

func TestBannerHTMLEscapesMessage(t *testing.T) {
	out := NewBanner(`<script>alert(1)</script>`, enums.MessageError).HTML()
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected escaped message, got %s", out)
	}
	if !strings.Contains(out, `class="alert alert-danger text-center"`) {
		t.Fatalf("missing alert class: %s", out)
	}
}

func TestNotifierAutoDismisses(t *testing.T) {
	var timers view.ManualTimers
	doc := view.NewMemory(Selector)
	n := NewNotifier(doc, WithAfterFunc(timers.AfterFunc))

	n.Show("Product added to cart", enums.MessageSuccess)
	if !doc.Visible(Selector) || !strings.Contains(doc.HTML(Selector), "Product added to cart") {
		t.Fatalf("expected banner on screen, got %q", doc.HTML(Selector))
	}

	timers.Advance(DismissAfter - time.Millisecond)
	if _, ok := n.Current(); !ok {
		t.Fatal("banner dismissed too early")
	}

	timers.Advance(time.Millisecond)
	if _, ok := n.Current(); ok {
		t.Fatal("expected banner dismissed")
	}
	if doc.Visible(Selector) {
		t.Fatal("expected banner hidden")
	}
}

func TestNotifierReplacesCurrentBanner(t *testing.T) {
	var timers view.ManualTimers
	doc := view.NewMemory(Selector)
	n := NewNotifier(doc, WithAfterFunc(timers.AfterFunc))

	n.Show("first", enums.MessageSuccess)
	timers.Advance(2 * time.Second)
	n.ShowError("second")

	timers.Advance(time.Second)
	b, ok := n.Current()
	if !ok || b.Text != "second" || b.Class != "alert-danger" {
		t.Fatalf("expected second banner still visible, got %+v ok=%v", b, ok)
	}
	if strings.Contains(doc.HTML(Selector), "first") {
		t.Fatal("expected first banner replaced")
	}

	timers.Advance(DismissAfter)
	if _, ok := n.Current(); ok {
		t.Fatal("expected second banner dismissed")
	}
	if timers.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", timers.Pending())
	}
}
