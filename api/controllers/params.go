package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/internal/cart"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/types"
)

const msgProductNotFound = "Product not found"

func productIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound).
			WithDetails(map[string]string{"product_id": raw})
	}
	return uint(id), nil
}

func money(d decimal.Decimal) types.Amount {
	return types.NewAmount(d.Round(2))
}

// totalsFields is the cart summary every cart and coupon response carries.
func totalsFields(t cart.Totals) responses.Fields {
	return responses.Fields{
		"cart_total":           t.Count,
		"subtotal":             money(t.Subtotal),
		"discount":             money(t.Discount),
		"total_after_discount": money(t.TotalAfterDiscount),
		"total_bonus_points":   money(t.TotalBonusPoints),
	}
}
