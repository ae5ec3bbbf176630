// Package product serves the catalogue: filtered, ordered and paginated
// listings plus the grid fragment the filter sidebar swaps in.
package product

import (
	"context"
	"database/sql"

	"github.com/micronstore/storefront/pkg/db/models"
	"github.com/micronstore/storefront/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default slider bounds when no product is available.
var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(1000)
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateProduct stores p; the model derives effective price and bonus points.
func (r *Repository) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateProduct saves every column of p.
func (r *Repository) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs loads the products with the given ids, ordered by id. Missing ids
// are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Listing is one page of a filtered catalogue.
type Listing struct {
	Products []models.Product
	Page     pagination.Page
}

// List filters, orders and paginates the catalogue.
func (r *Repository) List(ctx context.Context, f Filters, perPage int) (Listing, error) {
	base := r.db.WithContext(ctx).Model(&models.Product{})
	base = applySearch(base, f.SearchQuery)
	base = applyCategory(base, f.Category)
	base = applyDiscount(base, f.Discount)
	base = applyPriceRange(base, f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Listing{}, err
	}
	page := pagination.Paginate(f.Page, perPage, total)

	var rows []models.Product
	q := applyOrdering(base.Session(&gorm.Session{}), f.Order).
		Select("products.*").
		Preload("Category").
		Offset(page.Offset()).
		Limit(page.PerPage)
	if err := q.Find(&rows).Error; err != nil {
		return Listing{}, err
	}
	return Listing{Products: rows, Page: page}, nil
}

// Range is the effective price span of the available catalogue.
type Range struct {
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// PriceRange returns the min and max effective price over available
// products, falling back to DefaultMinPrice and DefaultMaxPrice.
func (r *Repository) PriceRange(ctx context.Context) (Range, error) {
	var row struct {
		MinPrice sql.NullString
		MaxPrice sql.NullString
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("MIN(effective_price) AS min_price, MAX(effective_price) AS max_price").
		Where("available = ?", true).
		Scan(&row).Error
	if err != nil {
		return Range{}, err
	}
	return Range{
		MinPrice: decimalOr(row.MinPrice, DefaultMinPrice),
		MaxPrice: decimalOr(row.MaxPrice, DefaultMaxPrice),
	}, nil
}

func decimalOr(v sql.NullString, fallback decimal.Decimal) decimal.Decimal {
	if !v.Valid {
		return fallback
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return fallback
	}
	return d
}
