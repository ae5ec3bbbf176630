package coupons

import (
	"context"
	"strings"
	"time"

	"github.com/micronstore/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates coupon persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindRedeemable matches code case-insensitively among active coupons whose
// validity window contains now.
func (r *Repository) FindRedeemable(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code))).
		Where("active = ?", true).
		Where("valid_from <= ? AND valid_to >= ?", now, now).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IncrementUsage bumps used_count while the coupon still has uses left. It
// reports false when the limit was reached concurrently.
func (r *Repository) IncrementUsage(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		Where("max_uses IS NULL OR used_count < max_uses").
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
