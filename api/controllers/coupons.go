package controllers

import (
	"context"
	"net/http"

	"github.com/micronstore/storefront/api/middleware"
	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/api/validators"
	"github.com/micronstore/storefront/internal/cart"
	"github.com/micronstore/storefront/internal/coupons"
	"github.com/micronstore/storefront/pkg/db/models"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

type couponRedeemer interface {
	Redeem(ctx context.Context, code string) (*models.Coupon, error)
}

type couponCart interface {
	SetCoupon(ctx context.Context, sessionID string, couponID *uint) (cart.Totals, error)
}

type couponPayload struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

// CouponApply redeems a code and attaches it to the session cart. A code that
// does not resolve also detaches whatever coupon the cart had.
func CouponApply(redeemer couponRedeemer, carts couponCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if redeemer == nil || carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(ctx)

		var form validators.CouponApplyForm
		if err := validators.DecodeForm(r, &form); err != nil {
			responses.WriteRejection(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, coupons.MsgInvalidForm), nil)
			return
		}

		coupon, err := redeemer.Redeem(ctx, form.Code)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				if _, clearErr := carts.SetCoupon(ctx, sessionID, nil); clearErr != nil {
					responses.WriteRejection(ctx, logg, w, clearErr, nil)
					return
				}
			}
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		id := coupon.ID
		totals, err := carts.SetCoupon(ctx, sessionID, &id)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{"coupon_id": coupon.ID, "discount": coupon.Discount}), "coupon.applied")
		}

		fields := totalsFields(totals)
		fields["coupon"] = couponPayload{Code: coupon.Code, Discount: coupon.Discount}
		fields["discount_amount"] = money(totals.Discount)
		responses.WriteStorefrontSuccess(w, coupons.MsgApplied, fields)
	}
}

// CouponRemove detaches the coupon from the session cart.
func CouponRemove(carts couponCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		totals, err := carts.SetCoupon(ctx, middleware.SessionIDFromContext(ctx), nil)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		fields := totalsFields(totals)
		fields["total_price"] = money(totals.Subtotal)
		fields["discount"] = "0"
		fields["total_bonus_points"] = totals.TotalBonusPoints.String()
		responses.WriteStorefrontSuccess(w, coupons.MsgRemoved, fields)
	}
}
