package product

import (
	"strings"

	"github.com/micronstore/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filters mirrors the query accepted by the products endpoint. Empty or
// unrecognised values leave the listing unfiltered.
type Filters struct {
	SearchQuery string
	Category    string
	Discount    string
	MinPrice    string
	MaxPrice    string
	Order       string
	Page        string
}

// PriceBounds parses both prices. Filtering by price only happens when both
// parse.
func (f Filters) PriceBounds() (decimal.Decimal, decimal.Decimal, bool) {
	if f.MinPrice == "" || f.MaxPrice == "" {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	lo, err := decimal.NewFromString(strings.TrimSpace(f.MinPrice))
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	hi, err := decimal.NewFromString(strings.TrimSpace(f.MaxPrice))
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	return lo, hi, true
}

var orderColumns = map[enums.SortOrder]string{
	enums.SortPriceAsc:  "products.effective_price ASC",
	enums.SortPriceDesc: "products.effective_price DESC",
	enums.SortDateAsc:   "products.created_at ASC",
	enums.SortDateDesc:  "products.created_at DESC",
}

func applySearch(q *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return q
	}
	return q.Where("LOWER(products.name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
}

func applyCategory(q *gorm.DB, slug string) *gorm.DB {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return q
	}
	return q.Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.slug = ?", slug)
}

func applyDiscount(q *gorm.DB, raw string) *gorm.DB {
	switch enums.ParseDiscountFilter(raw) {
	case enums.DiscountOnly:
		return q.Where("products.discount = ?", true)
	case enums.DiscountNone:
		return q.Where("products.discount = ?", false)
	default:
		return q
	}
}

func applyPriceRange(q *gorm.DB, f Filters) *gorm.DB {
	lo, hi, ok := f.PriceBounds()
	if !ok {
		return q
	}
	return q.Where("products.effective_price >= ? AND products.effective_price <= ?", lo, hi)
}

// applyOrdering sorts by the requested order, with id as tie breaker so
// pages never overlap.
func applyOrdering(q *gorm.DB, raw string) *gorm.DB {
	if order, err := enums.ParseSortOrder(raw); err == nil {
		q = q.Order(orderColumns[order])
	}
	return q.Order("products.id ASC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
