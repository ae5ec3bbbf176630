package favorites

import (
	"context"

	"github.com/google/uuid"
	"github.com/micronstore/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether the user already favorited the product.
func (r *Repository) Exists(ctx context.Context, userID uuid.UUID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the favorite. Duplicates surface as unique violations.
func (r *Repository) Add(ctx context.Context, userID uuid.UUID, productID uint) error {
	return r.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, ProductID: productID}).Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}

// ProductIDs lists the user's favorited product ids.
func (r *Repository) ProductIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	return ids, err
}

// ListProducts returns the user's favorited products, newest favorite first.
func (r *Repository) ListProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN favorites ON favorites.product_id = products.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Preload("Category").
		Find(&out).Error
	return out, err
}
