package models

import "time"

// Coupon grants a percentage discount on the whole cart.
type Coupon struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Code      string    `gorm:"column:code;size:50;not null;uniqueIndex:coupons_code_key"`
	ValidFrom time.Time `gorm:"column:valid_from;not null"`
	ValidTo   time.Time `gorm:"column:valid_to;not null"`
	Discount  int       `gorm:"column:discount;not null"`
	Active    bool      `gorm:"column:active;not null;default:false"`
	MaxUses   *int      `gorm:"column:max_uses"`
	UsedCount int       `gorm:"column:used_count;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasUsesLeft is true for unlimited coupons or while under the usage cap.
func (c Coupon) HasUsesLeft() bool {
	if c.MaxUses == nil {
		return true
	}
	return c.UsedCount < *c.MaxUses
}

// ValidAt reports whether the coupon is active and inside its window.
func (c Coupon) ValidAt(now time.Time) bool {
	return c.Active && !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}
