package filter

import (
	"strings"

	"github.com/micronstore/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Handle identifies one of the two price sliders.
type Handle int

const (
	HandleMin Handle = iota
	HandleMax
)

// Bounds are the catalogue wide price limits the sliders span.
type Bounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// DefaultBounds applies when the page does not publish its price range.
func DefaultBounds() Bounds {
	return Bounds{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}
}

// ParseBounds reads the data-min-price and data-max-price attributes. Empty,
// zero or unparsable values take the defaults.
func ParseBounds(minAttr, maxAttr string) Bounds {
	b := DefaultBounds()
	if d, ok := parseNumber(minAttr); ok && !d.IsZero() {
		b.Min = d
	}
	if d, ok := parseNumber(maxAttr); ok && !d.IsZero() {
		b.Max = d
	}
	return b
}

// Controls is the state of the filter sidebar.
type Controls struct {
	Bounds   Bounds
	MinValue decimal.Decimal
	MaxValue decimal.Decimal
	Discount string
	Category string
	Order    string
}

// NewControls starts with the sliders at the bounds and default ordering.
func NewControls(b Bounds) *Controls {
	c := &Controls{Bounds: b}
	c.Reset()
	return c
}

// Reset restores the sliders to the bounds and clears the selects.
func (c *Controls) Reset() {
	c.MinValue = c.Bounds.Min
	c.MaxValue = c.Bounds.Max
	c.Discount = ""
	c.Category = ""
	c.Order = string(enums.DefaultSortOrder)
}

// Set moves a slider to value without clamping.
func (c *Controls) Set(h Handle, value decimal.Decimal) {
	if h == HandleMin {
		c.MinValue = value
		return
	}
	c.MaxValue = value
}

// Clamp pulls the dragged slider back onto the other one when they cross.
func (c *Controls) Clamp(dragged Handle) {
	if c.MinValue.LessThanOrEqual(c.MaxValue) {
		return
	}
	if dragged == HandleMin {
		c.MinValue = c.MaxValue
		return
	}
	c.MaxValue = c.MinValue
}

// Apply copies restored criteria into the controls.
func (c *Controls) Apply(cr Criteria) {
	c.MinValue = cr.MinPrice
	c.MaxValue = cr.MaxPrice
	c.Discount = cr.Discount
	c.Category = cr.Category
	c.Order = cr.Order
}

// Criteria snapshots the controls for page, carrying searchQuery through.
func (c *Controls) Criteria(page int, searchQuery string) Criteria {
	return Criteria{
		MinPrice:    c.MinValue,
		MaxPrice:    c.MaxValue,
		Discount:    c.Discount,
		Category:    c.Category,
		Order:       c.Order,
		SearchQuery: strings.TrimSpace(searchQuery),
		Page:        page,
	}
}

// Labels are the slider captions.
func (c *Controls) Labels() (string, string) {
	return c.MinValue.StringFixed(2), c.MaxValue.StringFixed(2)
}
