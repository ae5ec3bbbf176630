package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/micronstore/storefront/api/middleware"
	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/internal/favorites"
	"github.com/micronstore/storefront/pkg/db/models"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/types"
)

const msgFavoriteRemoved = "Product removed from favorites"

type favoriteService interface {
	Add(ctx context.Context, userID uuid.UUID, productID uint) (favorites.AddResult, error)
	Remove(ctx context.Context, userID uuid.UUID, productID uint) error
	List(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

type favoriteProduct struct {
	ID    uint         `json:"id"`
	Name  string       `json:"name"`
	Slug  string       `json:"slug"`
	Price types.Amount `json:"price"`
}

// FavoriteAdd stars a product for the signed-in shopper. A product that is
// already starred is reported with success=false and an info message.
func FavoriteAdd(svc favoriteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, _ := middleware.UserIDFromContext(ctx)
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		result, err := svc.Add(ctx, userID, productID)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		if result.AlreadyFavorited {
			responses.WriteStorefront(w, http.StatusOK, types.StorefrontResponse{
				Success:     false,
				Message:     result.AlreadyMessage(),
				MessageType: enums.MessageInfo.String(),
			}, responses.Fields{"already_favorited": true})
			return
		}
		responses.WriteStorefrontSuccess(w, result.SuccessMessage(), nil)
	}
}

func FavoriteRemove(svc favoriteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, _ := middleware.UserIDFromContext(ctx)
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}
		if err := svc.Remove(ctx, userID, productID); err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}
		responses.WriteStorefrontSuccess(w, msgFavoriteRemoved, nil)
	}
}

// FavoriteList returns the shopper's starred products.
func FavoriteList(svc favoriteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, _ := middleware.UserIDFromContext(ctx)
		products, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, err, nil)
			return
		}

		out := make([]favoriteProduct, 0, len(products))
		for _, p := range products {
			out = append(out, favoriteProduct{ID: p.ID, Name: p.Name, Slug: p.Slug, Price: money(p.CurrentPrice())})
		}
		responses.WriteStorefrontSuccess(w, "", responses.Fields{"products": out})
	}
}
