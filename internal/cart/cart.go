// Package cart keeps the per-session shopping cart in Redis and derives its
// totals. Prices are captured when a product first enters the cart.
package cart

import (
	"sort"
	"strconv"

	"github.com/micronstore/storefront/pkg/db/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Item is one cart line as stored in the session.
type Item struct {
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	BonusPoints decimal.Decimal `json:"bonus_points"`
}

// Total is price times quantity.
func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalBonusPoints is bonus points times quantity.
func (i Item) TotalBonusPoints() decimal.Decimal {
	return i.BonusPoints.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the session document. Items are keyed by product id.
type Cart struct {
	Items    map[string]Item `json:"items"`
	CouponID *uint           `json:"coupon_id,omitempty"`
}

func New() *Cart {
	return &Cart{Items: map[string]Item{}}
}

func productKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Add puts qty of p into the cart, or sets the quantity when override is true.
func (c *Cart) Add(p models.Product, qty int, override bool) {
	if c.Items == nil {
		c.Items = map[string]Item{}
	}
	key := productKey(p.ID)
	item, ok := c.Items[key]
	if !ok {
		item = Item{Price: p.CartPrice(), BonusPoints: p.BonusPoints}
	}
	if override {
		item.Quantity = qty
	} else {
		item.Quantity += qty
	}
	c.Items[key] = item
}

// Remove drops the product's line. It reports whether a line existed.
func (c *Cart) Remove(productID uint) bool {
	key := productKey(productID)
	if _, ok := c.Items[key]; !ok {
		return false
	}
	delete(c.Items, key)
	return true
}

// Item returns the line for productID.
func (c *Cart) Item(productID uint) (Item, bool) {
	item, ok := c.Items[productKey(productID)]
	return item, ok
}

// Len is the number of units across all lines.
func (c *Cart) Len() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// ProductIDs lists the products in the cart in ascending order.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Items))
	for key := range c.Items {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.Total())
	}
	return sum
}

func (c *Cart) TotalBonusPoints() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.TotalBonusPoints())
	}
	return sum
}

// Totals is the cart summary the storefront displays.
type Totals struct {
	Count              int
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	TotalBonusPoints   decimal.Decimal
	Coupon             *models.Coupon
}

// Compute derives the totals. coupon may be nil; its percentage applies to
// the whole subtotal.
func (c *Cart) Compute(coupon *models.Coupon) Totals {
	subtotal := c.Subtotal()
	discount := decimal.Zero
	if coupon != nil {
		discount = decimal.NewFromInt(int64(coupon.Discount)).Div(hundred).Mul(subtotal).Round(2)
	}
	return Totals{
		Count:              c.Len(),
		Subtotal:           subtotal,
		Discount:           discount,
		TotalAfterDiscount: subtotal.Sub(discount),
		TotalBonusPoints:   c.TotalBonusPoints(),
		Coupon:             coupon,
	}
}
