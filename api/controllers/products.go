package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/micronstore/storefront/api/middleware"
	"github.com/micronstore/storefront/api/responses"
	"github.com/micronstore/storefront/api/validators"
	product "github.com/micronstore/storefront/internal/products"
	"github.com/micronstore/storefront/internal/storefront/filter"
	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/types"
)

const maxSearchLength = 100

type productCatalog interface {
	List(ctx context.Context, f product.Filters, perPage int) (product.Listing, error)
	PriceRange(ctx context.Context) (product.Range, error)
}

type gridRenderer interface {
	Grid(in product.GridInput) (string, error)
}

type favoriteIDs interface {
	IDs(ctx context.Context, userID uuid.UUID) (map[uint]struct{}, error)
}

type rateProvider interface {
	USDToUAH(ctx context.Context) (decimal.Decimal, bool)
}

// ProductFilterParams wires the listing endpoint.
type ProductFilterParams struct {
	Catalog   productCatalog
	Renderer  gridRenderer
	Favorites favoriteIDs
	Rates     rateProvider
	PerPage   int
	Logger    *logger.Logger
}

// ProductFilter answers the filter controls with the re-rendered grid.
// Any failure is a 400 carrying the error text.
func ProductFilter(p ProductFilterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logg := p.Logger

		html, err := renderListing(ctx, r, p)
		if err != nil {
			if logg != nil {
				ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
				logg.Error(ctx, "products.filter.failed", err)
			}
			responses.WriteStorefront(w, http.StatusBadRequest, types.StorefrontResponse{
				Success: false,
				Error:   pkgerrors.PublicMessage(err),
			}, nil)
			return
		}
		responses.WriteStorefrontSuccess(w, "", responses.Fields{"html": html})
	}
}

func renderListing(ctx context.Context, r *http.Request, p ProductFilterParams) (string, error) {
	if p.Catalog == nil || p.Renderer == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable")
	}

	q := r.URL.Query()
	filters := product.Filters{
		SearchQuery: validators.SanitizeString(q.Get(filter.ParamSearchQuery), maxSearchLength),
		Category:    q.Get(filter.ParamCategory),
		Discount:    q.Get(filter.ParamDiscount),
		MinPrice:    q.Get(filter.ParamMinPrice),
		MaxPrice:    q.Get(filter.ParamMaxPrice),
		Order:       q.Get(filter.ParamOrder),
		Page:        q.Get(filter.ParamPage),
	}

	listing, err := p.Catalog.List(ctx, filters, p.PerPage)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	favs := map[uint]struct{}{}
	if userID, ok := middleware.UserIDFromContext(ctx); ok && p.Favorites != nil {
		if favs, err = p.Favorites.IDs(ctx, userID); err != nil {
			return "", err
		}
	}

	prefix := ""
	if lang := chi.URLParam(r, "lang"); lang != "" {
		prefix = "/" + lang
	}

	return p.Renderer.Grid(product.GridInput{
		Listing:    listing,
		Favorites:  favs,
		Formatter:  price.NewFormatter(displayLocale(ctx, p.Rates)),
		PathPrefix: prefix,
	})
}

// displayLocale converts to hryvnia only for Ukrainian pages and only when a
// rate is known; otherwise prices stay in dollars.
func displayLocale(ctx context.Context, rates rateProvider) price.Locale {
	lang, err := enums.ParseLanguage(middleware.LanguageFromContext(ctx))
	if err != nil {
		return price.DefaultLocale()
	}
	loc := price.Locale{Language: lang}
	if enums.DisplayCurrency(lang) == enums.CurrencyUAH && rates != nil {
		if rate, ok := rates.USDToUAH(ctx); ok {
			loc.Rate = &rate
		}
	}
	return loc
}

// ProductPriceRange reports the effective price span of the catalogue, used
// to initialise the price sliders.
func ProductPriceRange(catalog productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if catalog == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		rng, err := catalog.PriceRange(ctx)
		if err != nil {
			responses.WriteRejection(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "price range"), nil)
			return
		}
		responses.WriteStorefrontSuccess(w, "", responses.Fields{
			"min_price": money(rng.MinPrice),
			"max_price": money(rng.MaxPrice),
		})
	}
}

// CurrencyRate tells page scripts which language and rate to format with.
// The rate is null when it cannot be fetched.
func CurrencyRate(rates rateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc := displayLocale(ctx, rates)

		var rate any
		if loc.HasRate() {
			rate = types.NewAmount(*loc.Rate)
		}
		responses.WriteStorefrontSuccess(w, "", responses.Fields{
			"language":        loc.Language.String(),
			"usd_to_uah_rate": rate,
		})
	}
}
