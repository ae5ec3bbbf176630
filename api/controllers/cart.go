package controllers

import (
	"context"
	"net/http"

	"github.com/micronstore/storefront/api/middleware"
	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/api/validators"
	"github.com/micronstore/storefront/internal/cart"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

type cartService interface {
	Add(ctx context.Context, sessionID string, productID uint, qty int, override bool) (cart.Totals, error)
	Remove(ctx context.Context, sessionID string, productID uint) (cart.Totals, error)
	Clear(ctx context.Context, sessionID string) (cart.Totals, error)
	Reconcile(ctx context.Context, sessionID string) ([]cart.Adjustment, cart.Totals, error)
}

type cartMessage struct {
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}

// CartSummary reconciles the session cart with current stock and returns the
// totals plus a warning per adjusted line.
func CartSummary(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		adjustments, totals, err := svc.Reconcile(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		messages := make([]cartMessage, 0, len(adjustments))
		for _, a := range adjustments {
			messages = append(messages, cartMessage{Message: a.Message(), MessageType: enums.MessageWarning.String()})
		}
		fields := totalsFields(totals)
		fields["messages"] = messages
		responses.WriteStorefrontSuccess(w, "", fields)
	}
}

// CartAdd adds a product or, with override, sets its quantity.
func CartAdd(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		var form validators.CartAddForm
		if err := validators.DecodeForm(r, &form); err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		totals, err := svc.Add(ctx, middleware.SessionIDFromContext(ctx), productID, form.Quantity, form.Override)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		msg := cart.MsgAdded
		if form.Override {
			msg = cart.MsgUpdated
		}
		responses.WriteStorefrontSuccess(w, msg, totalsFields(totals))
	}
}

func CartRemove(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		totals, err := svc.Remove(ctx, middleware.SessionIDFromContext(ctx), productID)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}
		responses.WriteStorefrontSuccess(w, cart.MsgRemoved, totalsFields(totals))
	}
}

func CartClear(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		totals, err := svc.Clear(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}
		responses.WriteStorefrontSuccess(w, cart.MsgCleared, totalsFields(totals))
	}
}
