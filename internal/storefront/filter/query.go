// Package filter drives the catalogue filter sidebar: it turns the control
// values into the canonical products query, debounces slider movement and
// swaps the product grid with the server rendered result.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/micronstore/storefront/pkg/enums"
	"github.com/micronstore/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Query parameter names shared with the products endpoint.
const (
	ParamMinPrice    = "min_price"
	ParamMaxPrice    = "max_price"
	ParamPage        = "page"
	ParamDiscount    = "discount"
	ParamCategory    = "category"
	ParamOrder       = "order"
	ParamSearchQuery = "search_query"
)

// Criteria is everything one filter request is built from.
type Criteria struct {
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	Discount    string
	Category    string
	Order       string
	SearchQuery string
	Page        int
}

// Param is a single query pair.
type Param struct {
	Key   string
	Value string
}

// Query keeps parameters in insertion order so the same criteria always
// produce the same URL.
type Query []Param

// BuildQuery serializes c. Prices and page are always present, the rest only
// when non-empty. A page below one is sent as one.
func BuildQuery(c Criteria) Query {
	page := c.Page
	if page < 1 {
		page = 1
	}
	q := Query{
		{Key: ParamMinPrice, Value: c.MinPrice.String()},
		{Key: ParamMaxPrice, Value: c.MaxPrice.String()},
		{Key: ParamPage, Value: strconv.Itoa(page)},
	}
	q = q.appendIf(ParamDiscount, c.Discount)
	q = q.appendIf(ParamCategory, c.Category)
	q = q.appendIf(ParamOrder, c.Order)
	q = q.appendIf(ParamSearchQuery, c.SearchQuery)
	return q
}

func (q Query) appendIf(key, value string) Query {
	if value == "" {
		return q
	}
	return append(q, Param{Key: key, Value: value})
}

// Get returns the first value for key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query form-encoded, in order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Values converts the query for use with net/url.
func (q Query) Values() url.Values {
	v := make(url.Values, len(q))
	for _, p := range q {
		v.Add(p.Key, p.Value)
	}
	return v
}

// ParseCriteria rebuilds criteria from a URL query string. Missing or
// unparsable prices fall back to bounds, order falls back to price.
func ParseCriteria(rawQuery string, bounds Bounds) Criteria {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	c := Criteria{
		MinPrice:    bounds.Min,
		MaxPrice:    bounds.Max,
		Discount:    values.Get(ParamDiscount),
		Category:    values.Get(ParamCategory),
		Order:       values.Get(ParamOrder),
		SearchQuery: values.Get(ParamSearchQuery),
		Page:        1,
	}
	if d, ok := parseNumber(values.Get(ParamMinPrice)); ok && !d.IsZero() {
		c.MinPrice = d
	}
	if d, ok := parseNumber(values.Get(ParamMaxPrice)); ok && !d.IsZero() {
		c.MaxPrice = d
	}
	if c.Order == "" {
		c.Order = string(enums.DefaultSortOrder)
	}
	if p, err := strconv.Atoi(values.Get(ParamPage)); err == nil && p > 0 {
		c.Page = p
	}
	return c
}

func parseNumber(s string) (decimal.Decimal, bool) {
	return types.ParseNumber(s)
}
