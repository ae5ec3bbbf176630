// Package totals projects cart mutation responses onto the cart summary.
package totals

import (
	"encoding/json"
	"fmt"

	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/micronstore/storefront/pkg/types"
)

// Summary node selectors.
const (
	SubtotalSelector    = "#cart-subtotal"
	BonusPointsSelector = "#cart-bonus-points"
	DiscountSelector    = "#discount-amount"
	TotalSelector       = "#cart-total"
	TotalRowSelector    = "#cart-total-row"
)

// DiscountPrefix marks the discount as a subtraction.
const DiscountPrefix = "– "

// Payload is the totals part every cart mutating endpoint returns. Coupon
// apply names the discount discount_amount, everything else uses discount.
type Payload struct {
	Subtotal           types.Amount `json:"subtotal"`
	Discount           types.Amount `json:"discount"`
	DiscountAmount     types.Amount `json:"discount_amount"`
	TotalAfterDiscount types.Amount `json:"total_after_discount"`
	TotalBonusPoints   types.Amount `json:"total_bonus_points"`
}

// Decode reads a payload from a raw response body. Unknown fields are ignored.
func Decode(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("decode cart totals: %w", err)
	}
	return p, nil
}

// EffectiveDiscount returns discount, or discount_amount when discount is absent.
func (p Payload) EffectiveDiscount() types.Amount {
	if p.Discount.Present() {
		return p.Discount
	}
	return p.DiscountAmount
}

// Summary is what the cart summary should display.
type Summary struct {
	Subtotal    string
	BonusPoints string
	ShowTotal   bool
	Discount    string
	Total       string
}

// Project computes the summary without touching any document.
func Project(p Payload, f *price.Formatter) Summary {
	s := Summary{
		Subtotal:    f.Format(p.Subtotal),
		BonusPoints: p.TotalBonusPoints.String(),
	}

	discount := p.EffectiveDiscount()
	if !discount.IsPositive() {
		return s
	}

	s.ShowTotal = true
	s.Discount = DiscountPrefix + f.FormatDecimal(discount.Value)
	if p.TotalAfterDiscount.Present() {
		s.Total = f.Format(p.TotalAfterDiscount)
	}
	return s
}

// Reconciler writes summaries into a document.
type Reconciler struct {
	doc       view.Document
	formatter *price.Formatter
}

func NewReconciler(doc view.Document, f *price.Formatter) *Reconciler {
	return &Reconciler{doc: doc, formatter: f}
}

// Reconcile refreshes the cart summary from p and returns what was written.
func (r *Reconciler) Reconcile(p Payload) Summary {
	s := Project(p, r.formatter)

	r.doc.SetText(SubtotalSelector, s.Subtotal)
	r.doc.SetText(BonusPointsSelector, s.BonusPoints)

	if !s.ShowTotal {
		r.doc.Hide(TotalRowSelector)
		return s
	}

	r.doc.SetText(DiscountSelector, s.Discount)
	if s.Total != "" {
		r.doc.SetText(TotalSelector, s.Total)
	}
	r.doc.Show(TotalRowSelector)
	return s
}
