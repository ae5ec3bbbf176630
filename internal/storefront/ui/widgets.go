package ui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
)

// QuantityStepper backs the +/- buttons next to the quantity input.
type QuantityStepper struct {
	Value int
}

// NewQuantityStepper reads the current input text. Anything that is not an
// integer starts the stepper at zero.
func NewQuantityStepper(raw string) *QuantityStepper {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v = 0
	}
	return &QuantityStepper{Value: v}
}

func (q *QuantityStepper) Increment() int {
	q.Value++
	return q.Value
}

// Decrement never goes below zero.
func (q *QuantityStepper) Decrement() int {
	if q.Value > 0 {
		q.Value--
	}
	return q.Value
}

func (q *QuantityStepper) String() string {
	return strconv.Itoa(q.Value)
}

// EscapeKey closes the search popup.
const EscapeKey = 27

// SearchPopup tracks the header search overlay.
type SearchPopup struct {
	mu      sync.Mutex
	visible bool
}

func (s *SearchPopup) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = !s.visible
	return s.visible
}

func (s *SearchPopup) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

func (s *SearchPopup) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// HandleKey closes the popup on Escape.
func (s *SearchPopup) HandleKey(code int) {
	if code == EscapeKey {
		s.Close()
	}
}

// HandleOverlayClick closes the popup only for clicks on the backdrop itself,
// not on the search form inside it.
func (s *SearchPopup) HandleOverlayClick(onOverlay bool) {
	if onOverlay {
		s.Close()
	}
}

// Gallery selectors and fade timing.
const (
	MainImageSelector = ".main-image"
	ZoomAttr          = "data-zoom-image"
	ImageFadeDelay    = 300 * time.Millisecond
)

// Gallery swaps the product page main image when a thumbnail is picked.
type Gallery struct {
	doc       view.Document
	images    []string
	afterFunc view.AfterFunc

	mu     sync.Mutex
	active int
}

func NewGallery(doc view.Document, images []string, afterFunc view.AfterFunc) *Gallery {
	if afterFunc == nil {
		afterFunc = view.RealAfterFunc
	}
	return &Gallery{doc: doc, images: images, afterFunc: afterFunc}
}

// Select fades the main image out, marks thumbnail i active and swaps the
// image source once the fade is done.
func (g *Gallery) Select(i int) error {
	if i < 0 || i >= len(g.images) {
		return fmt.Errorf("thumbnail %d out of range", i)
	}
	g.mu.Lock()
	g.active = i
	g.mu.Unlock()

	url := g.images[i]
	g.doc.SetStyle(MainImageSelector, "opacity", "0")
	g.afterFunc(ImageFadeDelay, func() {
		g.doc.SetAttr(MainImageSelector, "src", url)
		g.doc.SetAttr(MainImageSelector, ZoomAttr, url)
		g.doc.SetStyle(MainImageSelector, "opacity", "1")
	})
	return nil
}

// Active is the index of the highlighted thumbnail.
func (g *Gallery) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
