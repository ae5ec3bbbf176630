package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/micronstore/storefront/api/controllers"
	"github.com/micronstore/storefront/api/middleware"
	"github.com/micronstore/storefront/internal/cart"
	"github.com/micronstore/storefront/internal/favorites"
	product "github.com/micronstore/storefront/internal/products"
	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/db/models"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/metrics"
)

// CartService is the session cart as the cart and coupon endpoints use it.
type CartService interface {
	Add(ctx context.Context, sessionID string, productID uint, qty int, override bool) (cart.Totals, error)
	Remove(ctx context.Context, sessionID string, productID uint) (cart.Totals, error)
	Clear(ctx context.Context, sessionID string) (cart.Totals, error)
	Reconcile(ctx context.Context, sessionID string) ([]cart.Adjustment, cart.Totals, error)
	SetCoupon(ctx context.Context, sessionID string, couponID *uint) (cart.Totals, error)
}

type CouponService interface {
	Redeem(ctx context.Context, code string) (*models.Coupon, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID uuid.UUID, productID uint) (favorites.AddResult, error)
	Remove(ctx context.Context, userID uuid.UUID, productID uint) error
	List(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	IDs(ctx context.Context, userID uuid.UUID) (map[uint]struct{}, error)
}

type Catalog interface {
	List(ctx context.Context, f product.Filters, perPage int) (product.Listing, error)
	PriceRange(ctx context.Context) (product.Range, error)
}

type GridRenderer interface {
	Grid(in product.GridInput) (string, error)
}

type RateProvider interface {
	USDToUAH(ctx context.Context) (decimal.Decimal, bool)
}

// RateLimiter backs the coupon throttle.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Limiter  RateLimiter
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Cart      CartService
	Coupons   CouponService
	Favorites FavoriteService
	Catalog   Catalog
	Renderer  GridRenderer
	Rates     RateProvider
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		p.Metrics.Middleware,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}, logg))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.CORS(cfg.App.CORSOrigins),
			middleware.Session(cfg.Session, logg),
			middleware.CSRF(cfg.Session, logg),
			middleware.Auth(cfg.JWT, logg),
		)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Language(cfg.App.DefaultLanguage, nil))
			storefrontRoutes(r, p)
		})
		r.Route("/{lang}", func(r chi.Router) {
			r.Use(middleware.Language(cfg.App.DefaultLanguage, cfg.App.SupportsLanguage))
			storefrontRoutes(r, p)
		})
	})

	return r
}

// storefrontRoutes registers the page endpoints. They are mounted twice: at
// the root and under every language prefix.
func storefrontRoutes(r chi.Router, p RouterParams) {
	cfg := p.Config
	logg := p.Logger

	couponLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("coupon", cfg.CouponLimit.Window, cfg.CouponLimit.Limit, cfg.CouponLimit.Limit),
		p.Limiter,
		logg,
	)

	r.Get("/", controllers.Home())

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", controllers.CartSummary(p.Cart, logg))
		r.Post("/add/{productID}/", controllers.CartAdd(p.Cart, logg))
		r.Post("/remove/{productID}/", controllers.CartRemove(p.Cart, logg))
		r.Post("/clear/", controllers.CartClear(p.Cart, logg))
	})

	r.Route("/coupons", func(r chi.Router) {
		r.With(couponLimit).Post("/apply/", controllers.CouponApply(p.Coupons, p.Cart, logg))
		r.Post("/remove/", controllers.CouponRemove(p.Cart, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductFilter(controllers.ProductFilterParams{
			Catalog:   p.Catalog,
			Renderer:  p.Renderer,
			Favorites: p.Favorites,
			Rates:     p.Rates,
			PerPage:   cfg.Catalog.PageSize,
			Logger:    logg,
		}))
		r.Get("/price-range", controllers.ProductPriceRange(p.Catalog, logg))
	})

	r.Get("/currency/rate", controllers.CurrencyRate(p.Rates))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(logg))
		r.Post("/add-to-favorites/{productID}/", controllers.FavoriteAdd(p.Favorites, logg))
		r.Post("/remove-from-favorites/{productID}/", controllers.FavoriteRemove(p.Favorites, logg))
		r.Get("/favorites/", controllers.FavoriteList(p.Favorites, logg))
	})
}
